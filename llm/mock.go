package llm

import "context"

// MockProvider is an in-process Provider for tests. Responses are queued
// with SetResponse/QueueResponse; requests are recorded for assertions.
type MockProvider struct {
	responses []string
	err       error
	requests  []ChatRequest
	callCount int

	// ChatFunc overrides the canned behavior entirely when set.
	ChatFunc func(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// NewMockProvider creates a mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// SetResponse replaces the response queue with a single response that is
// returned on every call.
func (p *MockProvider) SetResponse(content string) {
	p.responses = []string{content}
}

// QueueResponse appends a response; queued responses are consumed in order,
// with the last one repeating once the queue drains.
func (p *MockProvider) QueueResponse(content string) {
	p.responses = append(p.responses, content)
}

// SetError makes every call fail with err.
func (p *MockProvider) SetError(err error) {
	p.err = err
}

// LastRequest returns the most recent request, or nil before any call.
func (p *MockProvider) LastRequest() *ChatRequest {
	if len(p.requests) == 0 {
		return nil
	}
	return &p.requests[len(p.requests)-1]
}

// Requests returns every recorded request.
func (p *MockProvider) Requests() []ChatRequest {
	return p.requests
}

// CallCount returns the number of Chat calls made.
func (p *MockProvider) CallCount() int {
	return p.callCount
}

// Chat implements the Provider interface.
func (p *MockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	p.callCount++
	p.requests = append(p.requests, req)

	if p.ChatFunc != nil {
		return p.ChatFunc(ctx, req)
	}
	if p.err != nil {
		return nil, p.err
	}

	var content string
	if len(p.responses) > 0 {
		idx := p.callCount - 1
		if idx >= len(p.responses) {
			idx = len(p.responses) - 1
		}
		content = p.responses[idx]
	}

	return &ChatResponse{
		Content:    content,
		StopReason: "end_turn",
		Model:      "mock",
	}, nil
}
