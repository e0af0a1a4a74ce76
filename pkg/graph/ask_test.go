package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/loader"
	"github.com/cognitive-crime/casegraph/pkg/store"
)

type fakeAIClient struct {
	completion string
	chatAnswer string
	err        error

	lastPrompt        string
	lastSystemPrompts []string
	lastMessages      []ai.ChatMessage
}

func (f *fakeAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.completion, nil
}

func (f *fakeAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	f.lastPrompt = prompt
	return f.err
}

func (f *fakeAIClient) GenerateChat(ctx context.Context, messages []ai.ChatMessage, opts ...ai.GenerateOption) (string, error) {
	f.lastMessages = messages
	options := ai.GenerateOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	f.lastSystemPrompts = options.SystemPrompts
	if f.err != nil {
		return "", f.err
	}
	return f.chatAnswer, nil
}

func (f *fakeAIClient) GenerateImageDescription(ctx context.Context, prompt string, image loader.ImageContent) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.completion, nil
}

func (f *fakeAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte{0x89, 0x50}, nil
}

func (f *fakeAIClient) ResetMetrics() {}

func (f *fakeAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func populatedStore(t *testing.T) *fakeGraphStore {
	t.Helper()
	graphStore := newFakeGraphStore()
	ctx := context.Background()
	if err := graphStore.MergeEntity(ctx, 7, store.Node{
		Key:        store.EntityKey{Label: "Person", Name: "John Doe"},
		Properties: map[string]any{"role": "suspect"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := graphStore.MergeEntity(ctx, 7, store.Node{
		Key: store.EntityKey{Label: "Location", Name: "Main Street"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := graphStore.MergeRelationship(ctx, store.Edge{
		Source: store.EntityKey{Label: "Person", Name: "John Doe"},
		Type:   "SEEN_AT",
		Target: store.EntityKey{Label: "Location", Name: "Main Street"},
	}); err != nil {
		t.Fatal(err)
	}
	return graphStore
}

func TestAskGroundsAnswerInCaseFacts(t *testing.T) {
	t.Parallel()

	client := &fakeAIClient{chatAnswer: "John Doe was seen at Main Street."}
	assistant := NewAssistant(populatedStore(t), client)

	messages := []ai.ChatMessage{{Role: "user", Message: "Where was John Doe?"}}
	answer, err := assistant.Ask(context.Background(), 7, messages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "John Doe was seen at Main Street." {
		t.Fatalf("unexpected answer: %q", answer)
	}

	if len(client.lastSystemPrompts) != 1 {
		t.Fatalf("got %d system prompts, want 1", len(client.lastSystemPrompts))
	}
	system := client.lastSystemPrompts[0]
	for _, fact := range []string{"John Doe is a Person", "role: suspect", "John Doe SEEN AT Main Street"} {
		if !strings.Contains(system, fact) {
			t.Fatalf("system prompt missing %q:\n%s", fact, system)
		}
	}
	if len(client.lastMessages) != 1 {
		t.Fatalf("got %d forwarded messages, want 1", len(client.lastMessages))
	}
}

func TestAskEmptyGraphReturnsErrNoEntities(t *testing.T) {
	t.Parallel()

	assistant := NewAssistant(newFakeGraphStore(), &fakeAIClient{})

	_, err := assistant.Ask(context.Background(), 7, []ai.ChatMessage{{Role: "user", Message: "anything"}})
	if !errors.Is(err, ErrNoEntities) {
		t.Fatalf("got %v, want ErrNoEntities", err)
	}
}

func TestSimulateUsesCaseEntities(t *testing.T) {
	t.Parallel()

	client := &fakeAIClient{completion: "The suspect entered through the rear window."}
	simulator := NewSimulator(populatedStore(t), client)

	narrative, err := simulator.Simulate(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if narrative == "" {
		t.Fatal("empty narrative")
	}
	if !strings.Contains(client.lastPrompt, "John Doe (Person)") {
		t.Fatalf("prompt missing entity: %s", client.lastPrompt)
	}
}

func TestSimulateEmptyCaseReturnsErrNoEntities(t *testing.T) {
	t.Parallel()

	simulator := NewSimulator(newFakeGraphStore(), &fakeAIClient{})

	_, err := simulator.Simulate(context.Background(), 7)
	if !errors.Is(err, ErrNoEntities) {
		t.Fatalf("got %v, want ErrNoEntities", err)
	}
}
