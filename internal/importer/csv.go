package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/gymlog/internal/models"
)

// Row is one historical set parsed from a CSV export.
type Row struct {
	SessionDate  time.Time
	ExerciseName string
	MuscleGroup  string
	SetNumber    int
	Weight       float64
	Reps         int
	RPE          *float64
}

// Expected column order. The muscle_group and rpe columns are optional.
var csvColumns = []string{"date", "exercise", "set", "weight", "reps", "rpe", "muscle_group"}

// ParseFile reads one CSV export. A header row is detected by its first
// field naming the date column; files without a header are accepted.
// Rows that fail boundary validation abort the whole file, so a bad export
// never half-imports.
func ParseFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseCSV(f, path)
}

func parseCSV(r io.Reader, name string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []Row
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line++

		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		// Only a row that names the date column is a header. Anything else
		// on line 1 is data and must parse, so a malformed first row errors
		// instead of vanishing.
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "date") {
			continue
		}

		row, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(record []string) (Row, error) {
	if len(record) < 5 {
		return Row{}, fmt.Errorf("want at least 5 columns (%s), got %d", strings.Join(csvColumns[:5], ","), len(record))
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
	if err != nil {
		return Row{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", record[0])
	}

	exercise := strings.TrimSpace(record[1])
	if exercise == "" {
		return Row{}, fmt.Errorf("empty exercise name")
	}

	setNumber, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil || setNumber < 1 {
		return Row{}, fmt.Errorf("invalid set number %q", record[2])
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return Row{}, fmt.Errorf("invalid weight %q", record[3])
	}

	reps, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return Row{}, fmt.Errorf("invalid reps %q", record[4])
	}

	row := Row{
		SessionDate:  date,
		ExerciseName: exercise,
		SetNumber:    setNumber,
		Weight:       weight,
		Reps:         reps,
	}

	if len(record) > 5 && strings.TrimSpace(record[5]) != "" {
		rpe, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
		if err != nil || rpe < 1 || rpe > 10 {
			return Row{}, fmt.Errorf("invalid rpe %q", record[5])
		}
		row.RPE = &rpe
	}
	if len(record) > 6 {
		row.MuscleGroup = strings.TrimSpace(record[6])
	}

	probe := models.LoggedSet{Weight: row.Weight, Reps: row.Reps, RPE: row.RPE, Completed: true, OccurredAt: date}
	if err := models.ValidateLoggedSet(probe); err != nil {
		return Row{}, err
	}
	return row, nil
}
