package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/AndrewLester/sntp/internal/sugar"
	"github.com/AndrewLester/sntp/internal/ui"
	"github.com/AndrewLester/sntp/pkg/sntp"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/klog/v2"
)

const (
	padding      = 10
	maxWidth     = 80
	tickInterval = 100 * time.Millisecond
)

// queryInteractive runs the query under a progress view drawn on stderr, so
// stdout still carries only the result line.
func queryInteractive(client *sntp.Client, address string) (*sntp.Result, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := newQueryModel(ctx, cancel, client, address, time.Now())
	return interactiveResult(sugar.RunProgramWithErrors(m, tea.WithOutput(os.Stderr)))
}

// interactiveResult maps how the progress view ended onto the query outcome.
// The request is never sent again.
func interactiveResult(final queryModel, err error) (*sntp.Result, error) {
	switch {
	case final.done:
		return final.result, err
	case err != nil:
		klog.Warningf("Progress view failed: %v", err)
		return nil, fmt.Errorf("%w: %w", sntp.ErrNoResponse, err)
	default:
		// Interrupted before the reply arrived.
		return nil, fmt.Errorf("%w: %w", sntp.ErrNoResponse, context.Canceled)
	}
}

type queryModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	client  *sntp.Client
	address string

	started  time.Time
	progress progress.Model
	percent  float64

	done   bool
	result *sntp.Result
	err    error
}

type queryResultMessage struct {
	result *sntp.Result
	err    error
}

type tickMessage time.Time

func newQueryModel(ctx context.Context, cancel context.CancelFunc, client *sntp.Client, address string, started time.Time) queryModel {
	return queryModel{
		ctx:      ctx,
		cancel:   cancel,
		client:   client,
		address:  address,
		started:  started,
		progress: progress.New(progress.WithScaledGradient(ui.GradientStart, ui.GradientEnd)),
	}
}

func queryCommand(m queryModel) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.Query(m.ctx, m.address)
		return queryResultMessage{result: result, err: err}
	}
}

func tickCommand() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMessage(t)
	})
}

func (m queryModel) timeout() time.Duration {
	if m.client.Timeout > 0 {
		return m.client.Timeout
	}
	return sntp.DefaultTimeout
}

func (m queryModel) Init() tea.Cmd {
	return tea.Batch(queryCommand(m), tickCommand())
}

func (m queryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// The query returns with context.Canceled and that ends the program.
			m.cancel()
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}
		return m, nil
	case tickMessage:
		if m.done {
			return m, nil
		}
		m.percent = float64(time.Time(msg).Sub(m.started)) / float64(m.timeout())
		if m.percent > 1 {
			m.percent = 1
		}
		return m, tickCommand()
	case queryResultMessage:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m queryModel) View() (s string) {
	if m.done {
		return
	}

	s += ui.TitleStyle("sntp") + " " + ui.AddressStyle(m.address) + "\n\n"
	s += m.progress.ViewAs(m.percent) + "\n\n"
	s += ui.HelpStyle("q: exit") + "\n"
	return
}

func (m queryModel) Err() error {
	return m.err
}
