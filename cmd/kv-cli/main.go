package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// kv-cli is a small client for the jsonkv HTTP API, useful for
// poking at a running server by hand.

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "kv-cli",
	Short: "Client for the jsonkv HTTP API",
}

var createCmd = &cobra.Command{
	Use:   "create VALUE",
	Short: "Create a new key",
	Long: `Create a new key holding VALUE.

VALUE is a JSON document; a value that is not valid JSON is stored as
a JSON string. If --key is not given a random key is generated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		if key == "" {
			key = uuid.NewString()
		}

		payload, err := json.Marshal(map[string]json.RawMessage{
			"key":   mustJSON(key),
			"value": toJSON(args[0]),
		})
		if err != nil {
			return err
		}

		return do(http.MethodPost, serverAddr+"/kv", payload)
	},
}

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Fetch the value stored under KEY",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return do(http.MethodGet, serverAddr+"/kv/"+args[0], nil)
	},
}

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Replace the value of an existing key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := json.Marshal(map[string]json.RawMessage{
			"value": toJSON(args[1]),
		})
		if err != nil {
			return err
		}

		return do(http.MethodPut, serverAddr+"/kv/"+args[0], payload)
	},
}

var delCmd = &cobra.Command{
	Use:   "del KEY",
	Short: "Delete a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return do(http.MethodDelete, serverAddr+"/kv/"+args[0], nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show server metrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return do(http.MethodGet, serverAddr+"/metrics", nil)
	},
}

// toJSON returns s as raw JSON, wrapping it in a JSON string when it
// is not already a valid document.
func toJSON(s string) json.RawMessage {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	return mustJSON(s)
}

func mustJSON(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// do sends the request and prints the response body; a non-200 status
// becomes a non-nil error so the process exits non-zero.
func do(method, url string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Println(string(bytes.TrimSpace(respBody)))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverAddr, "server", "s", "http://localhost:8080", "Server to talk to")
	createCmd.Flags().StringP("key", "k", "", "Key to create (random if empty)")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(delCmd)
	rootCmd.AddCommand(metricsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
