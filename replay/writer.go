package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"parchis/meta"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Writer struct {
	encoder *json.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: json.NewEncoder(w)}
}

func (w *Writer) WriteHeader(seed int64, rules string) error {
	return w.write(Header{V: Version, Rules: rules, Seed: seed})
}

func (w *Writer) WriteRoll(turn, player, d1, d2 int) error {
	return w.write(Roll{E: rollTag, Turn: turn, Player: player, D1: d1, D2: d2})
}

func (w *Writer) WriteMove(turn, player, piece, option, bonus int) error {
	return w.write(Move{E: moveTag, Turn: turn, Player: player, Piece: piece, MoveOption: option, Bonus: bonus})
}

func (w *Writer) write(v any) error {
	if err := w.encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write replay record: %w", err)
	}
	return nil
}

// DefaultDir returns the replay folder under the user's data directory.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, meta.APP_NAME, "replays")
}

// Create opens a new replay file with a unique name in dir.
func Create(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create replay directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("replay-%s.jsonl", uuid.New().String()))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay file: %w", err)
	}
	log.Info().Msgf("Replay file: %s", path)
	return f, nil
}
