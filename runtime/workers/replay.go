package workers

import (
	"bufio"
	"bytes"
	"chat-feed/domain/chat"
	"chat-feed/errors"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// replayRow is one line of a replay file. A row is a system notice when System is set,
// a session restart when Restart is set, and a chat line otherwise.
type replayRow struct {
	System  *string   `json:"system,omitempty"`
	Restart bool      `json:"restart,omitempty"`
	UserID  string    `json:"userId"`
	Date    time.Time `json:"date"`
	Comment string    `json:"comment"`
	Room    int       `json:"room"`
	No      int       `json:"no"`
	Premium *int      `json:"premium"`
}

// maxRowSize bounds a replay row; longer rows are skipped like any unreadable row.
const maxRowSize = 1024 * 1024

// ReplayWorker feeds a recorded session, one JSON object per line, into deliveries.
// Unreadable rows are logged and skipped. It finishes at the end of the file.
// After a failure the worker resumes after the last row it handled, so a restart
// never delivers the same row twice.
type ReplayWorker struct {
	path       string
	delay      time.Duration
	deliveries chan<- Delivery
	log        *slog.Logger
	handled    int
}

func NewReplayWorker(path string, delay time.Duration, deliveries chan<- Delivery, log *slog.Logger) *ReplayWorker {
	return &ReplayWorker{path: path, delay: delay, deliveries: deliveries, log: log}
}

func (w *ReplayWorker) Run(ctx context.Context) error {
	f, err := os.Open(w.path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := w.replay(ctx, f)
	if err != nil {
		return err
	}
	w.log.Info("Replay finished", "path", w.path, "rows", n)
	return nil
}

func (w *ReplayWorker) replay(ctx context.Context, r io.Reader) (int, error) {
	reader := bufio.NewReaderSize(r, 64*1024)

	sent, line := 0, 0
	for {
		data, tooLong, err := readRow(reader, maxRowSize)
		if err == io.EOF {
			return sent, nil
		}
		if err != nil {
			return sent, err
		}
		line++
		if line <= w.handled {
			continue
		}

		switch {
		case tooLong:
			w.log.Warn("Skipping replay row", "line", line, "error", fmt.Sprintf("row longer than %d bytes", maxRowSize))
		case len(data) == 0:
		default:
			d, err := parseReplayRow(data)
			if err != nil {
				w.log.Warn("Skipping replay row", "line", line, "error", err)
				break
			}
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case w.deliveries <- d:
				sent++
			}
			if w.delay > 0 {
				select {
				case <-ctx.Done():
					w.handled = line
					return sent, ctx.Err()
				case <-time.After(w.delay):
				}
			}
		}
		w.handled = line
	}
}

// readRow returns the next line without its line ending. A line longer than limit is
// drained and reported as tooLong with no data. io.EOF is returned only once no bytes are left.
func readRow(r *bufio.Reader, limit int) (data []byte, tooLong bool, err error) {
	size := 0
	for {
		chunk, err := r.ReadSlice('\n')
		size += len(chunk)
		if !tooLong {
			data = append(data, chunk...)
			if len(bytes.TrimRight(data, "\r\n")) > limit {
				tooLong, data = true, nil
			}
		}
		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && size > 0:
			return bytes.TrimRight(data, "\r\n"), tooLong, nil
		case err != nil:
			return nil, false, err
		}
		return bytes.TrimRight(data, "\r\n"), tooLong, nil
	}
}

func parseReplayRow(data []byte) (Delivery, error) {
	var row replayRow
	if err := json.Unmarshal(data, &row); err != nil {
		return Delivery{}, fmt.Errorf("%w: %v", errors.ErrInvalidReplayRow, err)
	}

	switch {
	case row.Restart:
		return Delivery{Restart: true}, nil
	case row.System != nil:
		return Delivery{Input: chat.SystemInput(*row.System)}, nil
	case row.Comment == "" && row.UserID == "":
		return Delivery{}, fmt.Errorf("%w: neither a system notice nor a chat line", errors.ErrInvalidReplayRow)
	}

	premium := chat.PremiumUnknown
	if row.Premium != nil {
		premium = chat.Premium(*row.Premium)
	}
	return Delivery{Input: chat.ChatInput(chat.Event{
		UserID:  row.UserID,
		Date:    row.Date,
		Comment: row.Comment,
		Room:    chat.RoomPosition(row.Room),
		No:      row.No,
		Premium: premium,
	})}, nil
}
