package countries

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"flag-quiz-service/internal/domain"
)

//go:embed codes/en.json
var codesEN []byte

//go:embed codes/fr.json
var codesFR []byte

// StaticSource serves the bundled code→name datasets for offline or
// simplified mode. Flag image URLs are synthesized from the alpha-2 code on
// the trusted CDN, so no network access is needed to build questions.
type StaticSource struct {
	list []domain.Country
}

// NewStaticSource decodes the embedded datasets once. It only fails if the
// bundled files are broken, which a test pins down.
func NewStaticSource() (*StaticSource, error) {
	var en, fr map[string]string
	if err := json.Unmarshal(codesEN, &en); err != nil {
		return nil, fmt.Errorf("decode embedded en dataset: %w", err)
	}
	if err := json.Unmarshal(codesFR, &fr); err != nil {
		return nil, fmt.Errorf("decode embedded fr dataset: %w", err)
	}

	codes := make([]string, 0, len(en))
	for code := range en {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	list := make([]domain.Country, 0, len(codes))
	for _, code := range codes {
		name := en[code]
		if name == "" {
			continue
		}
		list = append(list, domain.Country{
			Code:    strings.ToUpper(code),
			CCA2:    strings.ToUpper(code),
			Name:    name,
			NameFR:  fr[code],
			FlagPNG: "https://" + DefaultTrustedFlagHost + "/w320/" + code + ".png",
			FlagSVG: "https://" + DefaultTrustedFlagHost + "/" + code + ".svg",
		})
	}
	if len(list) == 0 {
		return nil, domain.ErrNoUsableData
	}
	return &StaticSource{list: list}, nil
}

// Countries returns the bundled records. Never fails after construction.
func (s *StaticSource) Countries(_ context.Context) ([]domain.Country, error) {
	return s.list, nil
}
