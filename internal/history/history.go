// Package history provides the season-by-season score lookup that feeds the
// prediction layer, plus the CSV ingestion for candidate pools and observed
// points tables.
package history

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/fpltools/squad-optimizer/internal/fpl"
)

// Season identifies one FPL season.
type Season int

const (
	Season2016_17 Season = iota + 1
	Season2017_18
	Season2018_19
	Season2019_20
	Season2020_21
	Season2021_22
	Season2022_23
	Season2023_24
)

// Seasons lists all known seasons in chronological order.
var Seasons = []Season{
	Season2016_17, Season2017_18, Season2018_19, Season2019_20,
	Season2020_21, Season2021_22, Season2022_23, Season2023_24,
}

func (s Season) String() string {
	start := 2015 + int(s)
	return fmt.Sprintf("%d/%02d", start, (start+1)%100)
}

// Row is one season total for one player in the history table.
type Row struct {
	FirstName  string  `csv:"first_name"`
	SecondName string  `csv:"second_name"`
	SeasonCode int     `csv:"season"`
	Points     float64 `csv:"total_points"`
}

// Table maps a player's full name to season totals in chronological order.
// Missing seasons are skipped, not zero-filled.
type Table map[string][]float64

// Lookup returns the player's history, with ok=false for unknown players.
func (t Table) Lookup(fullName string) ([]float64, bool) {
	h, ok := t[fullName]
	return h, ok
}

// BuildTable groups rows by player in season order.
func BuildTable(rows []Row) Table {
	bySeason := make(map[string]map[int]float64)
	for _, row := range rows {
		name := row.FirstName + " " + row.SecondName
		if bySeason[name] == nil {
			bySeason[name] = make(map[int]float64)
		}
		bySeason[name][row.SeasonCode] = row.Points
	}

	table := make(Table, len(bySeason))
	for name, points := range bySeason {
		for _, season := range Seasons {
			if p, ok := points[int(season)]; ok {
				table[name] = append(table[name], p)
			}
		}
	}
	return table
}

// LoadTable reads a history CSV into a Table.
func LoadTable(path string) (Table, error) {
	var rows []Row
	if err := loadCSV(path, &rows); err != nil {
		return nil, fmt.Errorf("load history table: %w", err)
	}
	return BuildTable(rows), nil
}

// LoadPool reads a candidate pool CSV.
func LoadPool(path string) ([]fpl.PoolRow, error) {
	var rows []fpl.PoolRow
	if err := loadCSV(path, &rows); err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}
	return rows, nil
}

// pointsRow is one observed-points record, keyed like the pool by full name.
type pointsRow struct {
	FirstName  string  `csv:"first_name"`
	SecondName string  `csv:"second_name"`
	Points     float64 `csv:"total_points"`
}

// LoadPointsTable reads an observed-points CSV into the projection table
// consumed by Squad.SquadTotalPoints.
func LoadPointsTable(path string) (fpl.PointsTable, error) {
	var rows []pointsRow
	if err := loadCSV(path, &rows); err != nil {
		return nil, fmt.Errorf("load points table: %w", err)
	}
	table := make(fpl.PointsTable, len(rows))
	for _, row := range rows {
		table[row.FirstName+" "+row.SecondName] = row.Points
	}
	return table, nil
}

func loadCSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.UnmarshalFile(f, out)
}
