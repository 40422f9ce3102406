package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	relayNetwork     = "bitcoin"
	relayTemperature = 0.1

	// FailureReply is persisted verbatim as the variation reply when the
	// validator cannot be reached or answers with a non-200 status.
	FailureReply = "Please try again. Can't receive any responses due to the poor network connection."
	// FailureMiner is the all-zero uuid marking a sentinel reply.
	FailureMiner = "00000000-0000-0000-0000-000000000000"
)

// Reply is what a validator answers to a text query.
type Reply struct {
	Text    string `json:"text"`
	MinerID string `json:"miner_id"`
}

// Relayer forwards user prompts to a validator.
type Relayer interface {
	Relay(ctx context.Context, userID, prompt, ip string, port int, variation bool, minerID string) Reply
}

type RelayClient struct {
	client *http.Client
	logger *zap.Logger
}

func NewRelayClient(logger *zap.Logger) *RelayClient {
	return &RelayClient{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type relayRequest struct {
	Network     string   `json:"network"`
	UserID      string   `json:"user_id"`
	Prompt      string   `json:"prompt"`
	MinerID     string   `json:"miner_id,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Relay posts the prompt to the validator and parses its reply. Any transport
// failure or non-200 status degrades to the sentinel reply; callers persist
// that like a real answer so the audit trail includes failed attempts. No
// retries.
func (c *RelayClient) Relay(ctx context.Context, userID, prompt, ip string, port int, variation bool, minerID string) Reply {
	body := relayRequest{
		Network: relayNetwork,
		UserID:  userID,
		Prompt:  prompt,
	}
	path := "/api/text_query"
	if variation {
		temp := relayTemperature
		body.MinerID = minerID
		body.Temperature = &temp
		path = "/api/text_query/variant"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		c.logger.Error("failed to encode relay request", zap.Error(err))
		return Reply{Text: FailureReply, MinerID: FailureMiner}
	}

	url := fmt.Sprintf("http://%s:%d%s", ip, port, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("failed to build relay request", zap.String("url", url), zap.Error(err))
		return Reply{Text: FailureReply, MinerID: FailureMiner}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("validator unreachable", zap.String("url", url), zap.Error(err))
		return Reply{Text: FailureReply, MinerID: FailureMiner}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("validator rejected query",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return Reply{Text: FailureReply, MinerID: FailureMiner}
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		c.logger.Warn("malformed validator reply", zap.String("url", url), zap.Error(err))
		return Reply{Text: FailureReply, MinerID: FailureMiner}
	}
	return reply
}
