package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

const writeWait = 10 * time.Second

func newPlayCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join the matchmaking pool and play a game of word chain",
		Long: `Connect to the server, wait for an opponent and play.

Each line typed is submitted as a word when it is your turn.
Type /timeout to report that your turn timer ran out.
The session ends when the match is over. Press Ctrl+C to leave early.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}

			wsURL, err := cfg.WebSocketURL()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session, err := Dial(ctx, wsURL, cfg.Token)
			if err != nil {
				return err
			}
			defer func() { _ = session.Close() }()

			out := NewOutputTo(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return session.Play(ctx, name, cmd.InOrStdin(), out)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// GameEvent is a message received from the game server
type GameEvent struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp string          `json:"timestamp"`
}

type eventPayload struct {
	Message      string `json:"message"`
	OpponentName string `json:"opponent_name"`
	IsYourTurn   bool   `json:"is_your_turn"`
	Lives        int    `json:"lives_remaining"`
	Word         string `json:"word"`
	Won          bool   `json:"won"`
	Code         string `json:"code"`
}

// Describe renders the event as a line of text, or "" for events with
// nothing to show
func (e GameEvent) Describe() string {
	var p eventPayload
	_ = json.Unmarshal(e.Payload, &p)

	switch e.Type {
	case "pending_status", "match_ended":
		return p.Message
	case "match_found":
		if p.IsYourTurn {
			return fmt.Sprintf("Playing %s. Your turn! (lives: %d)", p.OpponentName, p.Lives)
		}
		return fmt.Sprintf("Playing %s. Waiting for their word. (lives: %d)", p.OpponentName, p.Lives)
	case "word_accepted":
		return fmt.Sprintf("Opponent played %q. Your turn!", p.Word)
	case "invalid_submission":
		return fmt.Sprintf("%s (lives: %d)", p.Message, p.Lives)
	case "opponent_left":
		return "Your opponent left. Waiting for a new opponent..."
	case "error":
		return fmt.Sprintf("Error: %s (%s)", p.Message, p.Code)
	case "pong":
		return ""
	default:
		return e.Type
	}
}

// Session is a single game connection
type Session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Dial opens a game connection, sending token as a bearer credential when set
func Dial(ctx context.Context, wsURL, token string) (*Session, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connection failed: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return &Session{conn: conn}, nil
}

// Close closes the connection
func (s *Session) Close() error {
	s.mu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	s.mu.Unlock()
	return s.conn.Close()
}

// Send writes one client message
func (s *Session) Send(msgType string, payload any) error {
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

// Play joins as name, relays lines from in as submissions and prints every
// event until the match ends, the server goes away or ctx is cancelled
func (s *Session) Play(ctx context.Context, name string, in io.Reader, out *Output) error {
	if err := s.Send("join", map[string]string{"display_name": name}); err != nil {
		return fmt.Errorf("join failed: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.readEvents(out)
	}()

	go s.relayInput(in, out)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (s *Session) readEvents(out *Output) error {
	for {
		var evt GameEvent
		if err := s.conn.ReadJSON(&evt); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}

		out.PrintEvent(evt)
		if evt.Type == "match_ended" {
			return nil
		}
	}
}

func (s *Session) relayInput(in io.Reader, out *Output) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var err error
		switch line {
		case "":
			continue
		case "/timeout":
			err = s.Send("timeout", nil)
		default:
			err = s.Send("submit", map[string]string{"word": line})
		}
		if err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) {
				out.PrintError(err)
			}
			return
		}
	}
}
