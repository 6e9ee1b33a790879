package countries

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"flag-quiz-service/internal/domain"
)

// FlagRecord is one row of the semicolon-delimited flag-attribute dataset.
// The column order is fixed and must match the reference file exactly:
//
//	name;image;landmass;zone;area;population;language;religion;bars;stripes;
//	colours;red;green;blue;gold;white;black;orange;mainhue;circles;crosses;
//	saltires;quarters;sunstars;crescent;triangle;icon;animate;text;topleft;botright
type FlagRecord struct {
	Name       string
	Image      string
	Landmass   string // decoded label
	Zone       string // decoded label
	Area       int    // in thousands of km2
	Population int    // in round millions
	Language   string // decoded label
	Religion   string // decoded label
	Bars       int
	Stripes    int
	Colours    int
	Red        bool
	Green      bool
	Blue       bool
	Gold       bool
	White      bool
	Black      bool
	Orange     bool
	MainHue    string
	Circles    int
	Crosses    int
	Saltires   int
	Quarters   int
	Sunstars   int
	Crescent   bool
	Triangle   bool
	Icon       bool
	Animate    bool
	Text       bool
	TopLeft    string
	BotRight   string
}

const flagFileColumns = 31

// UnknownLabel is the fallback for category codes outside the documented range.
const UnknownLabel = "Unknown"

var landmassLabels = map[int]string{
	1: "North America",
	2: "South America",
	3: "Europe",
	4: "Africa",
	5: "Asia",
	6: "Oceania",
}

var zoneLabels = map[int]string{
	1: "NE",
	2: "SE",
	3: "SW",
	4: "NW",
}

var languageLabels = map[int]string{
	1:  "English",
	2:  "Spanish",
	3:  "French",
	4:  "German",
	5:  "Slavic",
	6:  "Other Indo-European",
	7:  "Chinese",
	8:  "Arabic",
	9:  "Japanese/Turkish/Finnish/Magyar",
	10: "Others",
}

var religionLabels = map[int]string{
	0: "Catholic",
	1: "Other Christian",
	2: "Muslim",
	3: "Buddhist",
	4: "Hindu",
	5: "Ethnic",
	6: "Marxist",
	7: "Others",
}

func categoryLabel(labels map[int]string, code int) string {
	if label, ok := labels[code]; ok {
		return label
	}
	return UnknownLabel
}

// ParseFlagFile reads semicolon-delimited flag records. Blank lines are
// skipped; any row with the wrong column count or a non-numeric numeric
// column is rejected with its row number.
func ParseFlagFile(r io.Reader) ([]FlagRecord, error) {
	var records []FlagRecord
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		record, err := parseFlagRow(line)
		if err != nil {
			return nil, fmt.Errorf("flag file row %d: %w", row, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read flag file: %w", err)
	}
	return records, nil
}

func parseFlagRow(line string) (FlagRecord, error) {
	fields := strings.Split(line, ";")
	if len(fields) != flagFileColumns {
		return FlagRecord{}, fmt.Errorf("expected %d columns, got %d", flagFileColumns, len(fields))
	}

	var firstErr error
	atoi := func(s string) int {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("numeric column %q: %w", s, err)
		}
		return n
	}
	abool := func(s string) bool { return atoi(s) != 0 }

	record := FlagRecord{
		Name:       strings.TrimSpace(fields[0]),
		Image:      strings.TrimSpace(fields[1]),
		Landmass:   categoryLabel(landmassLabels, atoi(fields[2])),
		Zone:       categoryLabel(zoneLabels, atoi(fields[3])),
		Area:       atoi(fields[4]),
		Population: atoi(fields[5]),
		Language:   categoryLabel(languageLabels, atoi(fields[6])),
		Religion:   categoryLabel(religionLabels, atoi(fields[7])),
		Bars:       atoi(fields[8]),
		Stripes:    atoi(fields[9]),
		Colours:    atoi(fields[10]),
		Red:        abool(fields[11]),
		Green:      abool(fields[12]),
		Blue:       abool(fields[13]),
		Gold:       abool(fields[14]),
		White:      abool(fields[15]),
		Black:      abool(fields[16]),
		Orange:     abool(fields[17]),
		MainHue:    strings.TrimSpace(fields[18]),
		Circles:    atoi(fields[19]),
		Crosses:    atoi(fields[20]),
		Saltires:   atoi(fields[21]),
		Quarters:   atoi(fields[22]),
		Sunstars:   atoi(fields[23]),
		Crescent:   abool(fields[24]),
		Triangle:   abool(fields[25]),
		Icon:       abool(fields[26]),
		Animate:    abool(fields[27]),
		Text:       abool(fields[28]),
		TopLeft:    strings.TrimSpace(fields[29]),
		BotRight:   strings.TrimSpace(fields[30]),
	}
	if firstErr != nil {
		return FlagRecord{}, firstErr
	}
	return record, nil
}

// FlagFileSource adapts a parsed flag-attribute file into the country source
// contract. The dataset carries no ISO codes, so the name doubles as the
// identifier; rows without a name or image reference are filtered out.
type FlagFileSource struct {
	list []domain.Country
}

// NewFlagFileSource parses the file at path and keeps the usable rows.
func NewFlagFileSource(path string) (*FlagFileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	defer f.Close()
	records, err := ParseFlagFile(f)
	if err != nil {
		return nil, err
	}
	return NewFlagFileSourceFromRecords(records)
}

// NewFlagFileSourceFromRecords builds the source from already-parsed records.
func NewFlagFileSourceFromRecords(records []FlagRecord) (*FlagFileSource, error) {
	list := make([]domain.Country, 0, len(records))
	for _, record := range records {
		if record.Name == "" || record.Image == "" {
			continue
		}
		list = append(list, domain.Country{
			Code:    record.Name,
			Name:    record.Name,
			FlagSVG: record.Image,
		})
	}
	if len(list) == 0 {
		return nil, domain.ErrNoUsableData
	}
	return &FlagFileSource{list: list}, nil
}

// Countries returns the parsed records.
func (s *FlagFileSource) Countries(_ context.Context) ([]domain.Country, error) {
	return s.list, nil
}
