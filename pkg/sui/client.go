package sui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/communitydao/budget-backend/pkg/config"
	"github.com/communitydao/budget-backend/pkg/logger"
)

// MaxEventPageSize caps a single event query window.
const MaxEventPageSize = 100

// Client talks JSON-RPC to a Sui fullnode. Reads are never retried here:
// staleness is preferable to added latency on the read path.
type Client struct {
	rpc  *rpcClient
	logg *logger.Logger
}

// NewClient builds a fullnode client from configuration.
func NewClient(cfg config.SuiConfig, logg *logger.Logger) (*Client, error) {
	url := strings.TrimSpace(cfg.RPCURL)
	if url == "" {
		return nil, errors.New("sui rpc url is required")
	}
	return &Client{
		rpc:  newRPCClient(url, cfg.Timeout),
		logg: logg,
	}, nil
}

type objectResponse struct {
	Data *struct {
		ObjectID string      `json:"objectId"`
		Version  flexUint    `json:"version"`
		Digest   string      `json:"digest"`
		Type     string      `json:"type"`
		Owner    ObjectOwner `json:"owner"`
		Content  *struct {
			DataType string         `json:"dataType"`
			Type     string         `json:"type"`
			Fields   map[string]any `json:"fields"`
		} `json:"content"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

// GetObject fetches full object state with content and ownership.
func (c *Client) GetObject(ctx context.Context, objectID string) (*ObjectData, error) {
	params := []any{objectID, map[string]bool{"showContent": true, "showOwner": true}}

	var resp objectResponse
	if err := c.rpc.call(ctx, "sui_getObject", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil || resp.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, objectID)
	}

	data := resp.Data
	obj := &ObjectData{
		ObjectID: data.ObjectID,
		Version:  uint64(data.Version),
		Digest:   data.Digest,
		Type:     data.Type,
		Owner:    data.Owner,
	}
	if data.Content == nil || data.Content.Fields == nil {
		return nil, fmt.Errorf("%w: %s has no content", ErrUnexpectedShape, objectID)
	}
	if obj.Type == "" {
		obj.Type = data.Content.Type
	}
	obj.Fields = data.Content.Fields
	return obj, nil
}

type eventPage struct {
	Data []struct {
		ID struct {
			TxDigest string `json:"txDigest"`
		} `json:"id"`
		Type        string         `json:"type"`
		ParsedJSON  map[string]any `json:"parsedJson"`
		TimestampMs flexUint       `json:"timestampMs"`
	} `json:"data"`
}

// QueryEvents returns up to limit events of the given move event type,
// newest first.
func (c *Client) QueryEvents(ctx context.Context, eventType string, limit int) ([]Event, error) {
	if limit <= 0 || limit > MaxEventPageSize {
		limit = MaxEventPageSize
	}
	params := []any{
		map[string]any{"MoveEventType": eventType},
		nil,   // cursor
		limit, // page size
		true,  // descending order
	}

	var page eventPage
	if err := c.rpc.call(ctx, "suix_queryEvents", params, &page); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(page.Data))
	for _, raw := range page.Data {
		events = append(events, Event{
			TxDigest:    raw.ID.TxDigest,
			TimestampMs: int64(raw.TimestampMs),
			Type:        raw.Type,
			ParsedJSON:  raw.ParsedJSON,
		})
	}
	return events, nil
}

// GetTransactionBlock fetches a transaction by digest with effects and
// object changes. A digest the node cannot see yet yields ErrTxNotVisible.
func (c *Client) GetTransactionBlock(ctx context.Context, digest string) (*TransactionBlockResponse, error) {
	params := []any{digest, map[string]bool{"showEffects": true, "showObjectChanges": true}}

	var resp TransactionBlockResponse
	if err := c.rpc.call(ctx, "sui_getTransactionBlock", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExecuteTransactionBlock submits signed transaction bytes for execution.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytesB64 string, signatures []string) (*TransactionBlockResponse, error) {
	params := []any{
		txBytesB64,
		signatures,
		map[string]bool{"showEffects": true, "showObjectChanges": true},
		"WaitForLocalExecution",
	}

	var resp TransactionBlockResponse
	if err := c.rpc.call(ctx, "sui_executeTransactionBlock", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type txBytesResponse struct {
	TxBytes string `json:"txBytes"`
}

// MoveCallTxBytes asks the fullnode to assemble full transaction bytes for
// the call, with gas selection left to the node.
func (c *Client) MoveCallTxBytes(ctx context.Context, signer string, call *MoveCall, gasBudget uint64) (string, error) {
	pkg, module, function, err := call.TargetParts()
	if err != nil {
		return "", err
	}

	args := make([]any, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		args = append(args, arg.JSONValue())
	}
	typeArgs := call.TypeArguments
	if typeArgs == nil {
		typeArgs = []string{}
	}

	params := []any{
		signer,
		pkg,
		module,
		function,
		typeArgs,
		args,
		nil, // gas object, node picks one
		strconv.FormatUint(gasBudget, 10),
	}

	var resp txBytesResponse
	if err := c.rpc.call(ctx, "unsafe_moveCall", params, &resp); err != nil {
		return "", err
	}
	if resp.TxBytes == "" {
		return "", fmt.Errorf("%w: empty transaction bytes", ErrUnexpectedShape)
	}
	return resp.TxBytes, nil
}
