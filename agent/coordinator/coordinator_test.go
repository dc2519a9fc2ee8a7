package coordinator

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/tanpawarit/hotel-assistant/agent/contract"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Complete(ctx context.Context, messages []contractx.Message, opts contractx.CompleteOptions) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeAgent struct {
	agentType contractx.AgentType
	result    contractx.PipelineResult
	err       error
	calls     int
	lastMsg   string
}

func (f *fakeAgent) Type() contractx.AgentType {
	return f.agentType
}

func (f *fakeAgent) Process(ctx context.Context, userMessage string, conversationID string) (contractx.PipelineResult, error) {
	f.calls++
	f.lastMsg = userMessage
	if f.err != nil {
		return contractx.PipelineResult{Agent: f.agentType}, f.err
	}
	return f.result, nil
}

type fakeRegistry struct {
	search   *fakeAgent
	booking  *fakeAgent
	customer *fakeAgent
}

func (f *fakeRegistry) Search() contractx.Agent   { return f.search }
func (f *fakeRegistry) Booking() contractx.Agent  { return f.booking }
func (f *fakeRegistry) Customer() contractx.Agent { return f.customer }

type fakeStore struct {
	appendErr error
	records   []contractx.MessageRecord
	history   []contractx.MessageRecord
	getErr    error
}

func (f *fakeStore) AppendMessage(ctx context.Context, conversationID string, record contractx.MessageRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeStore) GetHistory(ctx context.Context, conversationID string) ([]contractx.MessageRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.history, nil
}

func newTestSetup(t *testing.T, llm *fakeLLM, store contractx.ConversationStore) (*Coordinator, *fakeRegistry) {
	t.Helper()
	registry := &fakeRegistry{
		search: &fakeAgent{
			agentType: contractx.AgentTypeSearch,
			result:    contractx.PipelineResult{Agent: contractx.AgentTypeSearch, Response: "search reply"},
		},
		booking: &fakeAgent{
			agentType: contractx.AgentTypeBooking,
			result:    contractx.PipelineResult{Agent: contractx.AgentTypeBooking, Response: "booking reply"},
		},
		customer: &fakeAgent{
			agentType: contractx.AgentTypeCustomer,
			result:    contractx.PipelineResult{Agent: contractx.AgentTypeCustomer, Response: "customer reply"},
		},
	}

	c, err := New(llm, registry, store)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, registry
}

func TestHandleMessageRoutesByIntent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		intent   string
		response string
	}{
		{"search", "search", "search reply"},
		{"booking", "booking", "booking reply"},
		{"customer", "customer", "customer reply"},
		{"label with noise", "  Booking\n", "booking reply"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestSetup(t, &fakeLLM{response: tc.intent}, nil)
			result, err := c.HandleMessage(context.Background(), "hello there", "conv-1")
			if err != nil {
				t.Fatalf("HandleMessage() error = %v", err)
			}
			if result.Response != tc.response {
				t.Fatalf("expected %q, got %q", tc.response, result.Response)
			}
		})
	}
}

func TestHandleMessageDefaultsToSearch(t *testing.T) {
	t.Parallel()

	c, registry := newTestSetup(t, &fakeLLM{response: "weather"}, nil)
	result, err := c.HandleMessage(context.Background(), "what about the weather", "conv-1")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if result.Agent != contractx.AgentTypeSearch {
		t.Fatalf("unrecognized intent must default to search, got %s", result.Agent)
	}
	if registry.search.calls != 1 {
		t.Fatalf("expected search agent called once, got %d", registry.search.calls)
	}
}

func TestHandleMessageClassificationFailure(t *testing.T) {
	t.Parallel()

	c, registry := newTestSetup(t, &fakeLLM{err: errors.New("provider down")}, nil)
	_, err := c.HandleMessage(context.Background(), "book a room", "conv-1")
	if !errors.Is(err, contractx.ErrClassificationFailed) {
		t.Fatalf("expected ErrClassificationFailed, got %v", err)
	}
	if registry.search.calls+registry.booking.calls+registry.customer.calls != 0 {
		t.Fatal("no agent may run when classification fails")
	}
}

func TestHandleMessageClassificationIsStable(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{response: "booking"}
	c, registry := newTestSetup(t, llm, nil)

	for i := 0; i < 3; i++ {
		result, err := c.HandleMessage(context.Background(), "book hotel_1 for next week", "conv-1")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if result.Agent != contractx.AgentTypeBooking {
			t.Fatalf("run %d: expected booking, got %s", i, result.Agent)
		}
	}
	if registry.booking.calls != 3 {
		t.Fatalf("expected 3 booking runs, got %d", registry.booking.calls)
	}
}

func TestHandleMessageRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	c, _ := newTestSetup(t, &fakeLLM{response: "search"}, nil)
	_, err := c.HandleMessage(context.Background(), "   ", "conv-1")
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestHandleMessagePersistsBothTurns(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c, _ := newTestSetup(t, &fakeLLM{response: "customer"}, store)

	_, err := c.HandleMessage(context.Background(), "show my profile", "conv-7")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(store.records) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(store.records))
	}
	if store.records[0].Role != contractx.RoleUser || store.records[0].Content != "show my profile" {
		t.Fatalf("unexpected user record: %+v", store.records[0])
	}
	if store.records[1].Role != contractx.RoleAssistant || store.records[1].AgentName != "customer" {
		t.Fatalf("unexpected assistant record: %+v", store.records[1])
	}
	if store.records[0].ID == "" || store.records[0].ID == store.records[1].ID {
		t.Fatal("records must carry distinct non-empty ids")
	}
}

func TestHandleMessageStoreFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	store := &fakeStore{appendErr: errors.New("db down")}
	c, _ := newTestSetup(t, &fakeLLM{response: "search"}, store)

	result, err := c.HandleMessage(context.Background(), "hotels in Rome", "conv-1")
	if err != nil {
		t.Fatalf("store failure must not fail the run, got %v", err)
	}
	if result.Response != "search reply" {
		t.Fatalf("unexpected response: %q", result.Response)
	}
}

func TestHandleMessageSkipsPersistenceWithoutConversationID(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c, _ := newTestSetup(t, &fakeLLM{response: "search"}, store)

	if _, err := c.HandleMessage(context.Background(), "hotels in Rome", ""); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(store.records) != 0 {
		t.Fatalf("no records expected without a conversation id, got %d", len(store.records))
	}
}

func TestHandleMessageAgentErrorPropagates(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c, registry := newTestSetup(t, &fakeLLM{response: "booking"}, store)
	registry.booking.err = contractx.NewToolError(contractx.ToolErrDomainRejected, "check_availability", "no rooms")

	_, err := c.HandleMessage(context.Background(), "book hotel_2", "conv-1")
	if !contractx.IsToolRejection(err) {
		t.Fatalf("expected the agent error, got %v", err)
	}
	if len(store.records) != 0 {
		t.Fatalf("failed runs must not be persisted, got %d records", len(store.records))
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	t.Parallel()

	c, _ := newTestSetup(t, &fakeLLM{response: "search"}, nil)
	_, err := c.History(context.Background(), "conv-1")
	if !errors.Is(err, contractx.ErrHistoryUnavailable) {
		t.Fatalf("expected ErrHistoryUnavailable, got %v", err)
	}
}

func TestHistoryStoreFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{getErr: errors.New("db down")}
	c, _ := newTestSetup(t, &fakeLLM{response: "search"}, store)

	_, err := c.History(context.Background(), "conv-1")
	if !errors.Is(err, contractx.ErrHistoryUnavailable) {
		t.Fatalf("expected ErrHistoryUnavailable, got %v", err)
	}
}
