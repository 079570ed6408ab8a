package endpoints

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	"github.com/tabled-dev/tabled/internal/api"
	"github.com/tabled-dev/tabled/internal/pipeline"
	"github.com/tabled-dev/tabled/internal/svcctx"
	"github.com/tabled-dev/tabled/internal/table"
)

// requestSchema validates the inbound process request before any model
// call is made. The instruction bounds match the public API contract.
const requestSchema = `{
	"type": "object",
	"properties": {
		"instruction": {"type": "string", "minLength": 1, "maxLength": 1000},
		"table": {"type": "array", "items": {"type": "object"}}
	},
	"required": ["instruction", "table"],
	"additionalProperties": false
}`

var processSchema = jsonschema.MustCompileString("process_request.json", requestSchema)

// ProcessRequest is the inbound payload for POST /api/v1/process.
type ProcessRequest struct {
	Instruction string      `json:"instruction"`
	Table       table.Table `json:"table"`
}

// ProcessResponse carries the model's explanation and the resulting table.
type ProcessResponse struct {
	Message string      `json:"message"`
	Table   table.Table `json:"table"`
}

// ProcessEndpoint handles POST /api/v1/process.
type ProcessEndpoint struct{}

func (e *ProcessEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/v1/process", e.handler
}

func (e *ProcessEndpoint) RequiresAuth() bool { return true }

func (e *ProcessEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := svcctx.LoggerFrom(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	if err := processSchema.Validate(doc); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	var req ProcessRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	registry := svcctx.RegistryFrom(ctx)
	if registry == nil {
		writeError(w, http.StatusServiceUnavailable, "server not fully initialized")
		return
	}
	client, err := registry.Default()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "no LLM provider configured")
		return
	}

	var categories []string
	if cfg := svcctx.ConfigFrom(ctx); cfg != nil {
		categories = cfg.Categories
	}

	instruction := req.Instruction
	if len(instruction) > 50 {
		logger.Info("processing request", "instruction", instruction[:50]+"...")
	} else {
		logger.Info("processing request", "instruction", instruction)
	}

	// One pipeline instance per request; no state survives the cycle.
	p := pipeline.New(client, categories, logger)
	message, result := p.Run(ctx, instruction, req.Table)
	if result == nil {
		result = table.Table{}
	}

	writeJSON(w, http.StatusOK, ProcessResponse{
		Message: message,
		Table:   result,
	})
}

func (e *ProcessEndpoint) Command(getClient func() *api.Client) *cobra.Command {
	var (
		instruction string
		tableFile   string
		wait        bool
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Transform a table with a natural-language instruction",
		Long: `Send a table and an instruction to the running server for processing.

The table is read as a JSON array of objects from --file, or from stdin
when --file is omitted.

Examples:
  tabled api process --instruction "add a nationality column" --file table.json
  cat table.json | tabled api process --instruction "keep rows with confidence > 80"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if tableFile != "" {
				data, err = os.ReadFile(tableFile)
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read table: %w", err)
			}

			var tbl table.Table
			if err := json.Unmarshal(data, &tbl); err != nil {
				return fmt.Errorf("failed to parse table: %w", err)
			}

			client := getClient()
			if wait {
				if err := client.WaitReady(cmd.Context()); err != nil {
					return fmt.Errorf("server not reachable: %w", err)
				}
			}

			var resp ProcessResponse
			if err := client.Post(cmd.Context(), "/api/v1/process", ProcessRequest{
				Instruction: instruction,
				Table:       tbl,
			}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}

	cmd.Flags().StringVarP(&instruction, "instruction", "i", "", "Natural-language instruction (required)")
	cmd.Flags().StringVarP(&tableFile, "file", "f", "", "JSON file with the table (default: stdin)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the server to become reachable first")
	cmd.MarkFlagRequired("instruction")

	return cmd
}
