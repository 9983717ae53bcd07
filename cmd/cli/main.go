package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/adapter/http/middleware"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/auth"
)

var (
	baseURL   string
	timeout   time.Duration
	token     string
	principal string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "creditledger-cli",
		Short:         "CreditLedger CLI tool",
		Long:          `A command line interface for interacting with the CreditLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the CreditLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("CREDITLEDGER_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().StringVar(&principal, "principal", "", "Principal header, used when the server runs without auth")

	rootCmd.AddCommand(
		accountCmd(),
		executeCmd(),
		positionsCmd(),
		listCmd("coins", "List coin balances of all accounts", "/api/v1/coins"),
		listCmd("debts", "List debt shares of all accounts", "/api/v1/debts"),
		listCmd("debt-totals", "List total debt shares per denom", "/api/v1/debts/totals"),
		listCmd("vault-positions", "List vault positions of all accounts", "/api/v1/vault-positions"),
		listCmd("vault-totals", "List coin balances held per vault", "/api/v1/vault-positions/totals"),
		listCmd("allowed-coins", "List whitelisted coins", "/api/v1/allowed-coins"),
		listCmd("vaults", "List vault configurations", "/api/v1/vaults"),
		reconcileCmd(),
		tokenCmd(),
	)
	return rootCmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Credit account operations",
	}

	var owner string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a credit account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{Owner: owner}, "")
		},
	}
	createCmd.Flags().StringVar(&owner, "owner", "", "Owner of the account (defaults to the caller)")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account and its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, "")
		},
	}

	transferCmd := &cobra.Command{
		Use:   "transfer <account-id> <new-owner>",
		Short: "Hand an account to another principal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/transfer"
			return call(cmd, http.MethodPost, path, dto.TransferAccountRequest{To: args[1]}, "")
		},
	}

	cmd.AddCommand(createCmd, getCmd, transferCmd)
	return cmd
}

func executeCmd() *cobra.Command {
	var (
		file           string
		actions        string
		idempotencyKey string
	)
	cmd := &cobra.Command{
		Use:   "execute <account-id>",
		Short: "Run a batch of actions against an account",
		Long: `Run a batch of actions against an account. The batch is a JSON document
with "actions" and optional "funds", read from --file (use - for stdin) or --actions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBatch(cmd.InOrStdin(), file, actions)
			if err != nil {
				return err
			}
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/actions"
			return call(cmd, http.MethodPost, path, body, idempotencyKey)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "File holding the batch JSON")
	cmd.Flags().StringVar(&actions, "actions", "", "Inline batch JSON")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	return cmd
}

// readBatch loads a batch and rejects malformed actions before they reach the
// server.
func readBatch(stdin io.Reader, file, inline string) (*dto.ExecuteRequest, error) {
	var data []byte
	switch {
	case inline != "" && file != "":
		return nil, errors.New("use either --file or --actions, not both")
	case inline != "":
		data = []byte(inline)
	case file == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		data = b
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read batch file: %w", err)
		}
		data = b
	default:
		return nil, errors.New("a batch is required: pass --file or --actions")
	}

	var req dto.ExecuteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	if _, err := req.ToActions(); err != nil {
		return nil, err
	}
	return &req, nil
}

func positionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions <account-id>",
		Short: "Show collateral, debts, vault positions and health of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/positions", nil, "")
		},
	}
}

func listCmd(use, short, path string) *cobra.Command {
	var (
		limit      int
		startAfter string
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, http.MethodGet, pagePath(path, limit, startAfter), nil, "")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (server default when zero)")
	cmd.Flags().StringVar(&startAfter, "start-after", "", "Cursor returned by the previous page")
	return cmd
}

func pagePath(path string, limit int, startAfter string) string {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if startAfter != "" {
		q.Set("start_after", startAfter)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Check ledger consistency (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := request(cmd.Context(), http.MethodGet, "/api/v1/admin/reconciliation", nil, "")
			if err != nil {
				return err
			}

			var report struct {
				LedgerConsistent bool `json:"ledger_consistent"`
			}
			if err := json.Unmarshal(body, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if err := printRaw(out, body); err != nil {
				return err
			}
			if !report.LedgerConsistent {
				return errors.New("consistency check FAILED")
			}
			fmt.Fprintln(out, "Consistency check PASSED")
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed token for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret is required")
			}
			if subject == "" {
				return errors.New("--subject is required")
			}
			signed, err := auth.NewJWTManager(secret, ttl).Generate(&domain.Principal{ID: subject, Role: domain.Role(role)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the server")
	cmd.Flags().StringVar(&subject, "subject", "", "Principal the token is issued to")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "Role of the principal (user or admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

// call sends a request and prints the JSON response.
func call(cmd *cobra.Command, method, path string, payload any, idempotencyKey string) error {
	body, err := request(cmd.Context(), method, path, payload, idempotencyKey)
	if err != nil {
		return err
	}
	return printRaw(cmd.OutOrStdout(), body)
}

func request(ctx context.Context, method, path string, payload any, idempotencyKey string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if principal != "" {
		req.Header.Set(middleware.PrincipalHeader, principal)
	}
	if idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

func apiError(status int, body []byte) error {
	var e dto.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return fmt.Errorf("request failed (status %d): %s", status, truncate(string(body), 200))
	}
	return fmt.Errorf("request failed (status %d): %s: %s", status, e.Error, e.Message)
}

func printRaw(w io.Writer, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		_, err = fmt.Fprintln(w, string(body))
		return err
	}
	return printJSON(w, v)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
