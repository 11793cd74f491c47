package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordchain-go/internal/api/middleware"
	"github.com/mcoot/wordchain-go/internal/dependencies/mocks"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/dictionary"
	"github.com/mcoot/wordchain-go/internal/services/game"
	"github.com/mcoot/wordchain-go/internal/services/matchmaker"
	"github.com/mcoot/wordchain-go/internal/services/registry"
	"github.com/mcoot/wordchain-go/internal/services/turn"
	"github.com/mcoot/wordchain-go/internal/storage/memory"
	"github.com/mcoot/wordchain-go/internal/testutil"
)

// received is a decoded server message with its payload left raw
type received struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp string          `json:"timestamp"`
}

type HubSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	registry   *registry.Registry
	controller *game.Controller
	hub        *Hub
	server     *httptest.Server
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()

	dict := dictionary.New(memory.New(), s.clock, logger)
	_ = dict.LoadWords(testutil.TestWords())

	s.registry = registry.New(s.clock, logger)
	s.controller = game.NewController(s.registry, turn.NewValidator(dict), s.clock, game.DefaultTurnDuration, logger)
	mm := matchmaker.New(s.registry, s.controller, s.random, logger)
	s.hub = NewHub(mm, s.controller, s.clock, logger)
	s.controller.SetNotifier(s.hub)

	s.server = httptest.NewServer(NewHandler(s.hub, mocks.NewSequentialIDs(), logger))
}

func (s *HubSuite) TearDownTest() {
	s.hub.CloseAll()
	s.server.Close()
	s.controller.Shutdown()
}

func (s *HubSuite) dial() *websocket.Conn {
	return s.dialServer(s.server)
}

func (s *HubSuite) dialServer(server *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *HubSuite) send(conn *websocket.Conn, typ MessageType, payload any) {
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	s.Require().NoError(conn.WriteJSON(msg))
}

func (s *HubSuite) read(conn *websocket.Conn) received {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg received
	s.Require().NoError(conn.ReadJSON(&msg))
	return msg
}

func (s *HubSuite) expect(conn *websocket.Conn, typ MessageType, into any) {
	msg := s.read(conn)
	s.Require().Equal(typ, msg.Type, "payload: %s", string(msg.Payload))
	if into != nil {
		s.Require().NoError(json.Unmarshal(msg.Payload, into))
	}
}

// join connects alice then bob, with alice holding the first turn
func (s *HubSuite) join() (alice, bob *websocket.Conn) {
	alice = s.dial()
	s.send(alice, MsgJoin, JoinPayload{DisplayName: "alice"})
	s.expect(alice, MessageType(model.MessagePendingStatus), nil)

	s.random.QueueCoin(false)
	bob = s.dial()
	s.send(bob, MsgJoin, JoinPayload{DisplayName: "bob"})

	for _, conn := range []*websocket.Conn{alice, bob} {
		s.expect(conn, MessageType(model.MessagePendingStatus), nil)
		s.expect(conn, MessageType(model.MessageMatchFound), nil)
	}
	return alice, bob
}

func (s *HubSuite) TestJoinWaitsForOpponent() {
	conn := s.dial()
	s.send(conn, MsgJoin, JoinPayload{DisplayName: "alice"})

	msg := s.read(conn)
	s.Equal(MessageType(model.MessagePendingStatus), msg.Type)
	s.JSONEq(`{"message":"Hello alice! Please wait for an opponent to be found..."}`, string(msg.Payload))
	s.Equal("2024-01-01T12:00:00Z", msg.Timestamp)
}

func (s *HubSuite) TestMatchFoundForBoth() {
	alice := s.dial()
	s.send(alice, MsgJoin, JoinPayload{DisplayName: "alice"})
	s.read(alice)

	s.random.QueueCoin(true)
	bob := s.dial()
	s.send(bob, MsgJoin, JoinPayload{DisplayName: "bob"})

	var toBob, toAlice model.MatchFoundPayload
	s.expect(bob, MessageType(model.MessagePendingStatus), nil)
	s.expect(bob, MessageType(model.MessageMatchFound), &toBob)
	s.expect(alice, MessageType(model.MessagePendingStatus), nil)
	s.expect(alice, MessageType(model.MessageMatchFound), &toAlice)

	s.Equal("alice", toBob.OpponentName)
	s.True(toBob.IsYourTurn)
	s.Require().NotNil(toBob.TurnDeadline)
	s.Equal("bob", toAlice.OpponentName)
	s.False(toAlice.IsYourTurn)
	s.Equal(3, toAlice.LivesRemaining)
	s.Equal(3, toBob.LivesRemaining)
}

func (s *HubSuite) TestWordAcceptedReachesOpponent() {
	alice, bob := s.join()

	s.send(alice, MsgSubmit, SubmitPayload{Word: "cat"})

	var accepted model.WordAcceptedPayload
	s.expect(bob, MessageType(model.MessageWordAccepted), &accepted)
	s.Equal("cat", accepted.Word)
}

func (s *HubSuite) TestInvalidSubmissionReachesBoth() {
	alice, bob := s.join()
	s.send(alice, MsgSubmit, SubmitPayload{Word: "cat"})
	s.read(bob)

	s.send(bob, MsgSubmit, SubmitPayload{Word: "dog"})

	var toBob, toAlice model.InvalidSubmissionPayload
	s.expect(bob, MessageType(model.MessageInvalidSubmission), &toBob)
	s.expect(alice, MessageType(model.MessageInvalidSubmission), &toAlice)
	s.Equal(2, toBob.LivesRemaining)
	s.Equal("wrong_letter", toBob.Reason)
	s.True(toAlice.IsYourTurn)
}

func (s *HubSuite) TestEmptySubmitRejectedAtTransport() {
	alice, _ := s.join()

	s.send(alice, MsgSubmit, SubmitPayload{Word: "   "})

	var errPayload ErrorPayload
	s.expect(alice, MsgError, &errPayload)
	s.Equal(ErrCodeInvalidMessage, errPayload.Code)

	p, ok := s.registry.Get("conn-1")
	s.Require().True(ok)
	s.True(p.HasTurn())
	s.Equal(model.MaxLives, p.LivesRemaining)
}

func (s *HubSuite) TestMalformedMessage() {
	conn := s.dial()
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	var errPayload ErrorPayload
	s.expect(conn, MsgError, &errPayload)
	s.Equal(ErrCodeInvalidMessage, errPayload.Code)
}

func (s *HubSuite) TestUnknownMessageType() {
	conn := s.dial()
	s.send(conn, "dance", nil)

	var errPayload ErrorPayload
	s.expect(conn, MsgError, &errPayload)
	s.Equal("Unknown message type", errPayload.Message)
}

func (s *HubSuite) TestJoinTwiceIgnored() {
	conn := s.dial()
	s.send(conn, MsgJoin, JoinPayload{DisplayName: "alice"})
	s.read(conn)

	s.send(conn, MsgJoin, JoinPayload{DisplayName: "alicia"})
	s.send(conn, MsgPing, nil)

	// Nothing is sent back for the second join
	s.expect(conn, MsgPong, nil)

	p, ok := s.registry.Get("conn-1")
	s.Require().True(ok)
	s.Equal("alice", p.DisplayName)
	s.Equal(model.Stats{Connected: 1, Waiting: 1}, s.registry.Stats())
}

func (s *HubSuite) TestJoinRequiresDisplayName() {
	conn := s.dial()
	s.send(conn, MsgJoin, JoinPayload{DisplayName: ""})

	var errPayload ErrorPayload
	s.expect(conn, MsgError, &errPayload)
	s.Equal(ErrCodeInvalidMessage, errPayload.Code)

	// A corrected join still works
	s.send(conn, MsgJoin, JoinPayload{DisplayName: "alice"})
	s.expect(conn, MessageType(model.MessagePendingStatus), nil)
}

func (s *HubSuite) TestPingPong() {
	conn := s.dial()
	s.send(conn, MsgPing, nil)
	s.expect(conn, MsgPong, nil)
}

func (s *HubSuite) TestServerTimeoutDelivered() {
	alice, bob := s.join()

	s.clock.Advance(game.DefaultTurnDuration)

	var toAlice, toBob model.InvalidSubmissionPayload
	s.expect(alice, MessageType(model.MessageInvalidSubmission), &toAlice)
	s.expect(bob, MessageType(model.MessageInvalidSubmission), &toBob)
	s.Equal("Time is up! Lose a turn!", toAlice.Message)
	s.Equal("alice ran out of time! Your turn!", toBob.Message)
	s.True(toBob.IsYourTurn)
}

func (s *HubSuite) TestClientTimeoutAfterDeadline() {
	alice, bob := s.join()
	s.clock.Skew(game.DefaultTurnDuration)

	s.send(alice, MsgTimeout, nil)

	var toAlice model.InvalidSubmissionPayload
	s.expect(alice, MessageType(model.MessageInvalidSubmission), &toAlice)
	s.Equal("timed_out", toAlice.Reason)
	s.expect(bob, MessageType(model.MessageInvalidSubmission), nil)
}

func (s *HubSuite) TestOpponentLeftOnDisconnect() {
	alice, bob := s.join()

	s.Require().NoError(alice.Close())

	s.expect(bob, MessageType(model.MessageOpponentLeft), nil)
	s.Eventually(func() bool {
		_, ok := s.registry.Get("conn-1")
		return !ok
	}, time.Second, 10*time.Millisecond)

	p, ok := s.registry.Get("conn-2")
	s.Require().True(ok)
	s.Equal(model.StatusUnmatched, p.Status)
	s.Eventually(func() bool { return s.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

// leavingMatchmaker removes the waiting opponent as soon as a join commits
type leavingMatchmaker struct {
	inner Matchmaker
	hub   *Hub
}

func (m *leavingMatchmaker) SetUpMatch(ctx context.Context, id model.ConnectionID, displayName string) (matchmaker.Outcome, error) {
	outcome, err := m.inner.SetUpMatch(ctx, id, displayName)
	if err == nil && outcome.Matched {
		m.hub.disconnect(ctx, outcome.OpponentID)
	}
	return outcome, err
}

func (s *HubSuite) TestDisconnectAfterJoinIsLastWord() {
	logger := testutil.NopLogger()
	mm := &leavingMatchmaker{inner: matchmaker.New(s.registry, s.controller, s.random, logger)}
	hub := NewHub(mm, s.controller, s.clock, logger)
	mm.hub = hub
	s.controller.SetNotifier(hub)
	server := httptest.NewServer(NewHandler(hub, mocks.NewSequentialIDs(), logger))
	defer server.Close()
	defer hub.CloseAll()

	alice := s.dialServer(server)
	s.send(alice, MsgJoin, JoinPayload{DisplayName: "alice"})
	s.read(alice)

	s.random.QueueCoin(true)
	bob := s.dialServer(server)
	s.send(bob, MsgJoin, JoinPayload{DisplayName: "bob"})

	s.expect(bob, MessageType(model.MessagePendingStatus), nil)
	s.expect(bob, MessageType(model.MessageMatchFound), nil)
	s.expect(bob, MessageType(model.MessageOpponentLeft), nil)

	p, ok := s.registry.Get("conn-2")
	s.Require().True(ok)
	s.Equal(model.StatusUnmatched, p.Status)
	s.Empty(p.OpponentID)
}

func (s *HubSuite) TestConnectLogIncludesTokenSubject() {
	logger, logs := testutil.CaptureLogger()
	secret := []byte("test-secret")
	server := httptest.NewServer(middleware.Auth(secret)(NewHandler(s.hub, mocks.NewSequentialIDs(), logger)))
	defer server.Close()

	token, err := middleware.NewToken(secret, "player-7", time.Minute, time.Now())
	s.Require().NoError(err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), header)
	s.Require().NoError(err)
	defer func() { _ = conn.Close() }()

	s.Eventually(func() bool {
		return strings.Contains(logs.String(), "subject=player-7")
	}, time.Second, 10*time.Millisecond)
}
