package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ragdocs/config"
	"ragdocs/internal/core/retriever"
	"ragdocs/internal/database"
	"ragdocs/internal/database/model"
	"ragdocs/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const noEvidenceAnswer = "Not enough evidence in the uploaded documents to answer."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}
type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Run executes the query flow: embed, search, prompt, LLM, persist.
func Run(ctx context.Context, req Request) (Response, error) {
	if req.UserID == "" {
		return Response{}, errors.New("user_id is required")
	}
	if req.TopK <= 0 || req.TopK > 64 {
		req.TopK = 12
	}
	embedCtx, cancelEmbed := context.WithTimeout(ctx, 3*time.Second)
	defer cancelEmbed()
	vec, err := retriever.EmbedQuestion(embedCtx, strings.TrimSpace(req.Question))
	if err != nil {
		logger.Error(err, "%v: embed question failed", config.ModuleQuery)
		return Response{}, err
	}
	searchCtx, cancelSearch := context.WithTimeout(ctx, 1*time.Second)
	defer cancelSearch()
	hits, err := retriever.SearchMilvus(searchCtx, vec, req.TopK, retriever.Filters{
		UserID:    req.UserID,
		Filenames: req.Filenames,
	})
	if err != nil {
		logger.Error(err, "%v: search milvus failed", config.ModuleQuery)
		return Response{}, err
	}
	ctxs := make([]ContextSnippet, 0, len(hits))
	for _, h := range hits {
		ctxs = append(ctxs, ContextSnippet{
			Filename: h.Filename,
			ChunkID:  h.ChunkID,
			Page:     h.PageIndex,
			Snippet:  h.Content,
		})
	}
	// Guard hallucination
	if len(ctxs) == 0 {
		if err := persistMessages(ctx, req.UserID, req.Question, noEvidenceAnswer, nil); err != nil {
			logger.Error(err, "%v: persist messages failed", config.ModuleQuery)
		}
		return Response{Answer: noEvidenceAnswer, Contexts: []ContextSnippet{}}, nil
	}
	sysMsg, userMsg := buildPrompt(req.Question, ctxs)
	llmCtx, cancelLLM := context.WithTimeout(ctx, 10*time.Second)
	defer cancelLLM()
	answer, err := callLLM(llmCtx, sysMsg, userMsg)
	if err != nil {
		logger.Error(err, "%v: call llm failed", config.ModuleQuery)
		return Response{}, err
	}
	if err := persistMessages(ctx, req.UserID, req.Question, answer, ctxs); err != nil {
		logger.Error(err, "%v: persist messages failed", config.ModuleQuery)
	}
	return Response{Answer: answer, Contexts: ctxs}, nil
}

func buildPrompt(question string, ctxs []ContextSnippet) (systemMsg, userMsg string) {
	var b strings.Builder
	b.WriteString("You are a document assistant. Answer concisely using only the context snippets below. ")
	b.WriteString("If the snippets do not contain enough evidence, reply exactly: \"" + noEvidenceAnswer + "\".\n\n")
	b.WriteString("Contexts:\n")
	for i, c := range ctxs {
		b.WriteString(fmt.Sprintf("[%d] (file=%s, page=%d): %s\n\n", i+1, c.Filename, c.Page, sanitize(c.Snippet)))
	}
	systemMsg = b.String()
	userMsg = fmt.Sprintf("Question: %s\nCite the snippet numbers you relied on.", question)
	return
}

func sanitize(s string) string {
	out := strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(out)
}

func callLLM(ctx context.Context, promptSystem, promptUser string) (string, error) {
	client := openai.NewClient(option.WithAPIKey(config.Cfg.OpenAI.Key))
	req := chatRequest{
		Model:       config.Cfg.OpenAI.Model,
		Temperature: 0.2,
		MaxTokens:   512,
		Messages: []chatMessage{
			{Role: "system", Content: promptSystem},
			{Role: "user", Content: promptUser},
		},
	}
	var out chatResponse
	if err := client.Post(ctx, "/chat/completions", req, &out); err != nil {
		logger.Error(err, "%v: call llm failed", config.ModuleQuery)
		return "", err
	}
	if len(out.Choices) == 0 {
		err := fmt.Errorf("no choices returned")
		logger.Error(err, "%v: no choices returned", config.ModuleQuery)
		return "", err
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func persistMessages(ctx context.Context, userID, question, answer string, ctxs []ContextSnippet) error {
	now := time.Now()
	msgUser := model.Message{
		UserID:    userID,
		Role:      "user",
		Content:   question,
		CreatedAt: &now,
	}
	if err := database.CreateEntity(ctx, &msgUser); err != nil {
		logger.Error(err, "%v: persist messages failed", config.ModuleQuery)
		return err
	}
	msgAssistant := model.Message{
		UserID:    userID,
		Role:      "assistant",
		Content:   answer,
		CreatedAt: &now,
	}
	if err := database.CreateEntity(ctx, &msgAssistant); err != nil {
		logger.Error(err, "%v: persist messages failed", config.ModuleQuery)
		return err
	}
	for _, cs := range ctxs {
		filename := cs.Filename
		msgCtx := model.Message{
			UserID:    userID,
			Role:      "context",
			Content:   cs.Snippet,
			Filename:  &filename,
			CreatedAt: &now,
		}
		if err := database.CreateEntity(ctx, &msgCtx); err != nil {
			logger.Error(err, "%v: persist messages failed", config.ModuleQuery)
			return err
		}
	}
	return nil
}
