// Package mcp exposes the content tools over a stdio JSON-RPC server, so
// other agent hosts can call them with "tools/list" and "tools/call".
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"contentagent/internal/telemetry"
	"contentagent/tools"
)

const defaultCallTimeout = 60 * time.Second

type rpcReq struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
}

type rpcResp struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Result  map[string]any `json:"result,omitempty"`
	Error   *rpcError      `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToolDesc is the wire shape of one tool in a tools/list response.
type ToolDesc struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Server serves one registry over a stdio transport.
type Server struct {
	registry    *tools.Registry
	tel         *telemetry.Telemetry
	callTimeout time.Duration
	descs       []ToolDesc
}

func NewServer(reg *tools.Registry, tel *telemetry.Telemetry) *Server {
	s := &Server{registry: reg, tel: tel, callTimeout: defaultCallTimeout}
	for _, d := range reg.Catalog() {
		s.descs = append(s.descs, ToolDesc{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.Schema,
		})
	}
	return s
}

// Serve reads JSON-RPC requests until EOF. A malformed frame ends the
// session: the decoder cannot resynchronise mid-stream.
func (s *Server) Serve(in io.Reader, out io.Writer) error {
	dec := json.NewDecoder(bufio.NewReader(in))
	for {
		var req rpcReq
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.tel.Logger().Printf("malformed frame, closing session: %v", err)
			return fmt.Errorf("decode request: %w", err)
		}
		s.handle(out, req)
	}
}

func (s *Server) handle(out io.Writer, req rpcReq) {
	switch req.Method {
	case "tools/list":
		writeResp(out, req.ID, map[string]any{"tools": s.descs}, nil)

	case "tools/call":
		name, _ := req.Params["name"].(string)
		args, _ := req.Params["arguments"].(map[string]any)
		ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout)
		content, ok := s.registry.Dispatch(ctx, name, args)
		cancel()
		writeResp(out, req.ID, map[string]any{
			"content":  content,
			"is_error": !ok,
		}, nil)

	default:
		writeResp(out, req.ID, nil, fmt.Errorf("unknown method: %s", req.Method))
	}
}

func writeResp(w io.Writer, id any, result map[string]any, err error) {
	resp := rpcResp{JSONRPC: "2.0", ID: id}
	if err != nil {
		resp.Error = &rpcError{Code: -32000, Message: err.Error()}
	} else {
		resp.Result = result
	}
	_ = json.NewEncoder(w).Encode(resp)
}
