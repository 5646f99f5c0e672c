package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"dinorun/app"
	"dinorun/x/arcade/devnet"
	"dinorun/x/arcade/session"
)

const (
	flagRounds = "rounds"
	flagTick   = "tick"

	autoplayTick = 10 * time.Millisecond
	// autoMissRate makes unattended rounds end.
	autoMissRate = 0.2
)

const playHelp = `keys: <enter>/j jump, p pay, s start, x dismiss, r refresh,
      l leaderboard, c connect, d disconnect, q quit`

func playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play Dino Run in the terminal against the devnet wallet",
		Long: `Play Dino Run in the terminal against the devnet wallet.

Without --rounds the session is driven from stdin:
  ` + playHelp + `

With --rounds the runner pays, plays and submits the given number of rounds
on its own and exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := mustApp(cmd)
			if err != nil {
				return err
			}
			rounds, _ := cmd.Flags().GetInt(flagRounds)
			tick, _ := cmd.Flags().GetDuration(flagTick)

			engineCfg := a.Config().Engine
			if tick > 0 {
				engineCfg.Tick = tick
			}
			if rounds > 0 {
				engineCfg.AutoJump = true
				if engineCfg.MissRate == 0 {
					engineCfg.MissRate = autoMissRate
				}
			}

			t := &terminal{out: cmd.OutOrStdout(), quiet: rounds > 0}
			engine := devnet.NewEngine(engineCfg, t.frame)
			defer engine.Close()

			ctrl := a.NewController(engine)
			ctrl.Watch(t.state)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			runErr := make(chan error, 1)
			go func() { runErr <- ctrl.Run(ctx) }()

			if rounds > 0 {
				err = autoplay(ctx, ctrl, t, rounds)
			} else {
				t.printf("%s\n", playHelp)
				err = interactive(ctx, a, ctrl, cmd.InOrStdin(), t)
			}

			cancel()
			if rerr := <-runErr; rerr != nil && !errors.Is(rerr, context.Canceled) {
				return rerr
			}
			return err
		},
	}
	cmd.Flags().Int(flagRounds, 0, "play this many rounds unattended and exit")
	cmd.Flags().Duration(flagTick, 0, "engine tick, overrides engine.tick")
	return cmd
}

// terminal renders frames and phase changes.
type terminal struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
	phase session.Phase
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) frame(f devnet.Frame) {
	if t.quiet {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\r%s %6d", f.Track, f.Score)
}

func (t *terminal) state(s session.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.Phase == t.phase {
		return
	}
	t.phase = s.Phase
	if !t.quiet {
		fmt.Fprintln(t.out)
	}
	fmt.Fprintf(t.out, "[%s]", s.Phase)
	if s.Phase == session.PhaseGameOver {
		fmt.Fprintf(t.out, " score %d", s.LastScore)
		if s.NewHighScore {
			fmt.Fprint(t.out, " new high score")
		}
	}
	if s.LastError != nil {
		fmt.Fprintf(t.out, " error: %v", s.LastError)
	}
	fmt.Fprintln(t.out)
}

// autoplay pays for and plays rounds until n rounds are over.
func autoplay(ctx context.Context, ctrl *session.Controller, t *terminal, n int) error {
	ticker := time.NewTicker(autoplayTick)
	defer ticker.Stop()

	start := ctrl.State().Round
	for {
		s := ctrl.State()
		switch {
		case s.Round >= start+uint64(n) && s.Phase == session.PhaseGameOver:
			t.printf("played %d rounds, last score %d\n", n, s.LastScore)
			return nil
		case s.Phase == session.PhaseReady && s.HasPaid:
			ctrl.Start()
		case s.Phase != session.PhasePlaying && s.CanPay():
			ctrl.Pay()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// interactive maps stdin lines to session events until q or EOF.
func interactive(ctx context.Context, a *app.App, ctrl *session.Controller, in io.Reader, t *terminal) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		switch line {
		case "", "j", " ":
			ctrl.Jump()
		case "p":
			ctrl.Pay()
		case "s":
			ctrl.Start()
		case "x":
			ctrl.Dismiss()
		case "r":
			ctrl.Refresh()
		case "c":
			ctrl.Connect()
		case "d":
			ctrl.Disconnect()
		case "l":
			printLeaderboard(ctx, a, ctrl.State(), t)
		case "q":
			return nil
		default:
			t.printf("%s\n", playHelp)
		}
	}
}

func printLeaderboard(ctx context.Context, a *app.App, s session.State, t *terminal) {
	var b strings.Builder
	if s.PersonalBest != nil {
		fmt.Fprintf(&b, "personal best: %d %d %d\n", s.PersonalBest.Best, s.PersonalBest.Second, s.PersonalBest.Third)
	}
	if len(s.Leaderboard) == 0 {
		b.WriteString("leaderboard is empty\n")
	}
	for i, row := range s.Leaderboard {
		fmt.Fprintf(&b, "%2d. %-24s %d\n", i+1, a.Resolver.Resolve(ctx, row.Player), row.Score)
	}
	t.printf("%s", b.String())
}
