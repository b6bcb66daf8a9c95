package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

type GameRecord struct {
	ID      int
	Chooser string // Chooser name shared by every player
	GameMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a folder for one experiment under root, named by the
// experiment and the current timestamp.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string { return w.baseDir }

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"id", "chooser", "seed", "starting_player", "winner", "ranking", "completed",
		"turns", "rolls", "doubles", "moves", "auto_moves", "captures", "doubles_penalties",
		"bonuses_granted", "bonuses_forfeited", "blockade_breaks", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			record.Chooser,
			strconv.FormatInt(record.Seed, 10),
			strconv.Itoa(record.StartingPlayer),
			strconv.Itoa(record.Winner),
			joinInts(record.Ranking),
			strconv.FormatBool(record.Completed),
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.Rolls),
			strconv.Itoa(record.Doubles),
			strconv.Itoa(record.TotalMoves),
			strconv.Itoa(record.AutoMoves),
			strconv.Itoa(record.Captures),
			strconv.Itoa(record.DoublesPenalties),
			strconv.Itoa(record.BonusesGranted),
			strconv.Itoa(record.BonusesForfeited),
			strconv.Itoa(record.BlockadeBreaks),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (w *Writer) WriteSummary(s Summary) error {
	path := filepath.Join(w.baseDir, "summary.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write([]string{"metric", "mean", "std_dev", "min", "median", "max"})
	if err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	rows := []struct {
		name string
		d    Distribution
	}{
		{"turns", s.Turns},
		{"moves", s.Moves},
		{"captures", s.Captures},
		{"doubles_penalties", s.Penalties},
	}
	for _, r := range rows {
		err = writer.Write([]string{r.name, formatFloat(r.d.Mean), formatFloat(r.d.StdDev),
			formatFloat(r.d.Min), formatFloat(r.d.Median), formatFloat(r.d.Max)})
		if err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	players := make([]int, 0, len(s.Wins))
	for p := range s.Wins {
		players = append(players, p)
	}
	sort.Ints(players)
	for _, p := range players {
		err = writer.Write([]string{fmt.Sprintf("wins_player_%d", p), strconv.Itoa(s.Wins[p]), "", "", "", ""})
		if err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
