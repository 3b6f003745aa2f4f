package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	generativelanguage "cloud.google.com/go/ai/generativelanguage/apiv1beta"
	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	app_errors "legalaid/internal/errors"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

type contentStream interface {
	Recv() (*generativelanguagepb.GenerateContentResponse, error)
}

type openStreamFunc func(ctx context.Context, req *generativelanguagepb.GenerateContentRequest) (contentStream, error)

// GeminiProvider streams answers from the Generative Language API. The gRPC
// client is created on first use and owned by the provider.
type GeminiProvider struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *generativelanguage.GenerativeClient
	open   openStreamFunc
}

// NewGeminiProvider returns a provider for model. An empty apiKey is not an
// error here; every request then fails with app_errors.ErrMissingAPIKey.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

// StreamChat implements Provider.
func (p *GeminiProvider) StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	open, err := p.opener(ctx)
	if err != nil {
		return err
	}

	stream, err := open(ctx, buildGeminiRequest(p.model, req))
	if err != nil {
		return upstreamError(ctx, err)
	}

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return upstreamError(ctx, err)
		}
		text := responseText(resp)
		if text == "" {
			continue
		}
		select {
		case ch <- StreamResponse{Content: text}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case ch <- StreamResponse{Done: true}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Close releases the gRPC connection, if one was made.
func (p *GeminiProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	p.open = nil
	return err
}

func (p *GeminiProvider) opener(ctx context.Context) (openStreamFunc, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open != nil {
		return p.open, nil
	}
	if p.apiKey == "" {
		return nil, app_errors.ErrMissingAPIKey
	}

	client, err := generativelanguage.NewGenerativeClient(context.WithoutCancel(ctx), option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: could not create generative client: %v", app_errors.ErrUpstream, err)
	}
	slog.Info("Created Gemini client", "model", p.model)

	p.client = client
	p.open = func(ctx context.Context, req *generativelanguagepb.GenerateContentRequest) (contentStream, error) {
		return client.StreamGenerateContent(ctx, req)
	}
	return p.open, nil
}

func buildGeminiRequest(model string, req *ChatRequest) *generativelanguagepb.GenerateContentRequest {
	contents := make([]*generativelanguagepb.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		contents = append(contents, textContent(m.Role, m.Content))
	}
	contents = append(contents, textContent(RoleUser, req.Message))

	out := &generativelanguagepb.GenerateContentRequest{
		Model:    modelResource(model),
		Contents: contents,
	}
	if req.SystemInstruction != "" {
		out.SystemInstruction = &generativelanguagepb.Content{
			Parts: []*generativelanguagepb.Part{{Data: &generativelanguagepb.Part_Text{Text: req.SystemInstruction}}},
		}
	}
	return out
}

func textContent(role, text string) *generativelanguagepb.Content {
	return &generativelanguagepb.Content{
		Role:  role,
		Parts: []*generativelanguagepb.Part{{Data: &generativelanguagepb.Part_Text{Text: text}}},
	}
}

func modelResource(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

func responseText(resp *generativelanguagepb.GenerateContentResponse) string {
	if resp == nil || len(resp.GetCandidates()) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.GetCandidates()[0].GetContent().GetParts() {
		b.WriteString(part.GetText())
	}
	return b.String()
}

// upstreamError classifies a gRPC failure. Quota exhaustion is reported as
// rate limiting so the proxy can answer 429.
func upstreamError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", app_errors.ErrUpstream, err)
	}
	switch st.Code() {
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", app_errors.ErrRateLimited, st.Message())
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", app_errors.ErrConfiguration, st.Message())
	default:
		return fmt.Errorf("%w: %s", app_errors.ErrUpstream, st.Message())
	}
}
