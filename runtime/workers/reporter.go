package workers

import (
	"chat-feed/contract"
	"chat-feed/domain/chat"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/process"
)

// ActiveUsersSource exposes the latest activity estimate.
type ActiveUsersSource interface {
	ActiveUsers() (int, bool)
}

// ReporterWorker prints the tail of the filtered view to the console at a fixed interval.
type ReporterWorker struct {
	store    contract.MessageStore
	activity ActiveUsersSource
	out      io.Writer
	interval time.Duration
	rows     int
	log      *slog.Logger
}

func NewReporterWorker(store contract.MessageStore, activity ActiveUsersSource, out io.Writer,
	interval time.Duration, rows int, log *slog.Logger) *ReporterWorker {
	return &ReporterWorker{store: store, activity: activity, out: out, interval: interval, rows: rows, log: log}
}

// Run starts the reporting loop until context cancellation
func (w *ReporterWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Reporter stopped")
			return ctx.Err()
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *ReporterWorker) report(p *process.Process) {
	active := "n/a"
	if n, ok := w.activity.ActiveUsers(); ok {
		active = strconv.Itoa(n)
	}
	stats := "n/a"
	if rss, cpu, err := selfStats(p); err != nil {
		w.log.Debug("Failed to collect self stats", "error", err)
	} else {
		stats = fmt.Sprintf("%dMB %.1f%%", rss/1024/1024, cpu)
	}

	header := fmt.Sprintf("📊 messages: %d | active users: %s | process: %s", w.store.Count(), active, stats)
	fmt.Fprintln(w.out, color.New(color.BgBlack, color.FgGreen).Render(header))
	w.renderTable(w.store.Snapshot(w.rows))
}

func (w *ReporterWorker) renderTable(messages []chat.Message) {
	table := tablewriter.NewWriter(w.out)
	table.SetHeader([]string{"No", "User", "Lang", "Comment"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, m := range messages {
		table.Append(row(m))
	}
	table.Render()
}

func row(m chat.Message) []string {
	no := strconv.FormatUint(m.No, 10)
	if m.IsSystem() {
		return []string{no, "-", "-", color.Yellow.Sprint(m.Text)}
	}

	user := m.UserID()
	switch {
	case user == "":
		user = "-"
	case !chat.IsRawUserID(user):
		// Hashed ids belong to anonymous posters.
		user = "~" + user
	}
	if m.FirstChat {
		user = color.Cyan.Sprint(user)
	}
	lang := whatlanggo.Detect(m.Chat.Comment).Lang.Iso6391()
	return []string{no, user, lang, m.Chat.Comment}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpu, nil
}
