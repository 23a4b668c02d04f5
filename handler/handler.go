// Package handler adapts API Gateway proxy events to the stand-in assistant
// service.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"dale-assistant/internal/assistant"
	"dale-assistant/internal/domain"
	"dale-assistant/internal/usecase"
)

const headerCorrelationID = "X-Correlation-Id"

type Asker interface {
	Ask(ctx context.Context, in usecase.AskInput) (usecase.AskOutput, error)
}

type Handler struct {
	asker  Asker
	logger *slog.Logger
}

type askResponse struct {
	Reply string `json:"reply"`
	LogID int64  `json:"log_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func NewHandler(asker Asker) (*Handler, error) {
	if asker == nil {
		return nil, errors.New("handler: asker must not be nil")
	}
	return &Handler{asker: asker, logger: slog.Default()}, nil
}

func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := header(event.Headers, headerCorrelationID)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	log := h.logger.With("correlation_id", correlationID, "request_id", header(event.Headers, assistant.HeaderRequestID))

	if event.HTTPMethod != "" && event.HTTPMethod != http.MethodPost {
		return respond(http.StatusMethodNotAllowed, correlationID, errorResponse{
			Detail: fmt.Sprintf("Method %q not allowed.", event.HTTPMethod),
		}), nil
	}

	var req domain.AssistantRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		log.Warn("invalid request body", "err", err)
		return respond(http.StatusBadRequest, correlationID, errorResponse{
			Detail: "JSON parse error",
			Code:   string(usecase.ErrorInvalidInput),
		}), nil
	}

	out, err := h.asker.Ask(ctx, usecase.AskInput{
		Prompt:      req.Prompt,
		Context:     req.Context,
		History:     req.History,
		PageHeader:  header(event.Headers, assistant.HeaderPageContext),
		BearerToken: usecase.BearerFromHeader(header(event.Headers, "Authorization")),
	})
	if err != nil {
		status, body := errorBody(err)
		log.Warn("ask failed", "status", status, "err", err)
		return respond(status, correlationID, body), nil
	}

	log.Info("ask answered", "log_id", out.LogID)
	return respond(http.StatusOK, correlationID, askResponse{Reply: out.Reply, LogID: out.LogID}), nil
}

func errorBody(err error) (int, errorResponse) {
	var ue *usecase.Error
	if errors.As(err, &ue) {
		detail := ue.Detail
		if detail == "" {
			detail = ue.Reason
		}
		return ue.HTTPStatus(), errorResponse{Detail: detail, Code: string(ue.Code)}
	}
	return http.StatusInternalServerError, errorResponse{
		Detail: "Internal server error",
		Code:   string(usecase.ErrorInternal),
	}
}

func respond(status int, correlationID string, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"detail":"failed to encode response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":      "application/json",
			headerCorrelationID: correlationID,
		},
		Body: string(body),
	}
}

// header looks a value up case-insensitively; API Gateway does not
// normalise header casing.
func header(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
