package matcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orcafacil/internal"
)

type mockCompletionsService struct {
	content   string
	err       error
	callCount int
	lastModel openai.ChatModel
	messages  int
}

func (m *mockCompletionsService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	m.callCount++
	m.lastModel = params.Model.Value
	m.messages = len(params.Messages.Value)
	if m.err != nil {
		return nil, m.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: m.content}}},
	}, nil
}

var testCatalog = []internal.CatalogItem{
	{ID: "c1", Description: "CABO FLEX 2,5MM PRETO", Price: 3.2},
	{ID: "c2", Description: "PARAFUSO 4X40", Price: 0.35},
}

func TestOpenAIMatcherMatch(t *testing.T) {
	mock := &mockCompletionsService{content: `{"mappedItems":[
		{"originalRequest":"1 rolo de cabo","quantity":100,"catalogIndex":0,"conversionLog":"1 rolo = 100m"},
		{"originalRequest":"tomada","quantity":2,"catalogIndex":-1}
	]}`}
	m := NewOpenAIMatcher(mock, Options{Model: "gpt-4o-mini", RateLimitRPS: 100, ConversionInstructions: "RULES HERE"})

	results, err := m.Match(context.Background(), testCatalog, []string{"1 rolo de cabo", "2 tomada"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].CatalogIndex)
	assert.Equal(t, NotFound, results[1].CatalogIndex)

	assert.Equal(t, 1, mock.callCount)
	assert.Equal(t, openai.ChatModel("gpt-4o-mini"), mock.lastModel)
	assert.Equal(t, 2, mock.messages)
	assert.Contains(t, m.system, "RULES HERE")
}

func TestBuildUserPrompt(t *testing.T) {
	got := buildUserPrompt(testCatalog, []string{"1 rolo de cabo", "2 tomada"})
	assert.Equal(t, "CATALOG:\n"+
		"Index: 0 | Item: CABO FLEX 2,5MM PRETO | Price: 3.2\n"+
		"Index: 1 | Item: PARAFUSO 4X40 | Price: 0.35\n\n"+
		"CUSTOMER REQUEST:\n1 rolo de cabo\n2 tomada", got)
	assert.True(t, strings.HasPrefix(buildSystemPrompt("  X  "), "You are"))
}

func TestOpenAIMatcherEmptyBatchSkipsCall(t *testing.T) {
	mock := &mockCompletionsService{}
	m := NewOpenAIMatcher(mock, Options{RateLimitRPS: 100})

	results, err := m.Match(context.Background(), testCatalog, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, mock.callCount)
}

func TestOpenAIMatcherTransportError(t *testing.T) {
	cause := errors.New("503 service unavailable")
	m := NewOpenAIMatcher(&mockCompletionsService{err: cause}, Options{RateLimitRPS: 100})

	_, err := m.Match(context.Background(), testCatalog, []string{"cabo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteMatch)
	assert.ErrorIs(t, err, cause)
}

func TestOpenAIMatcherMalformedReply(t *testing.T) {
	m := NewOpenAIMatcher(&mockCompletionsService{content: `{"mappedItems":[{"originalRequest":"a","quantity":1,"catalogIndex":9}]}`}, Options{RateLimitRPS: 100})

	_, err := m.Match(context.Background(), testCatalog, []string{"a"})
	require.ErrorIs(t, err, ErrRemoteMatch)
}

func TestOpenAIMatcherCancelledContext(t *testing.T) {
	mock := &mockCompletionsService{}
	m := NewOpenAIMatcher(mock, Options{RateLimitRPS: 100})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Match(ctx, testCatalog, []string{"a"})
	require.ErrorIs(t, err, ErrRemoteMatch)
	assert.Zero(t, mock.callCount)
}

func TestRenderCatalogEmpty(t *testing.T) {
	assert.Equal(t, "", RenderCatalog(nil))
}
