package registry

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/logging"
)

// ExportedMsg is one line written by an Exporter.
type ExportedMsg struct {
	ChainID  string     `json:"chain_id"`
	Contract string     `json:"contract"`
	Msg      ExecuteMsg `json:"msg"`
}

// Exporter is a Submitter that writes each message as a JSON line, to be
// signed and broadcast by an external tool.
type Exporter struct {
	mu       sync.Mutex
	enc      *json.Encoder
	chainID  string
	contract string
	count    int
}

// NewExporter returns an Exporter writing to w messages addressed to the
// ANS host at contract.
func NewExporter(w io.Writer, chainID, contract string) *Exporter {
	return &Exporter{enc: json.NewEncoder(w), chainID: chainID, contract: contract}
}

// Submit implements Submitter.
func (e *Exporter) Submit(ctx context.Context, msg ExecuteMsg) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enc.Encode(ExportedMsg{ChainID: e.chainID, Contract: e.contract, Msg: msg}); err != nil {
		return errors.WrapIO("write", "export", err)
	}
	e.count++
	logging.Ctx(ctx).Debug().Int("exported", e.count).Msg("Exported execute message")
	return nil
}

// Count returns the number of messages written.
func (e *Exporter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}
