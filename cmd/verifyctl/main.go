// verifyctl is a small client for the verification server, useful for
// smoke-testing deployments without crafting curl payloads by hand.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	authToken string
)

func main() {
	root := &cobra.Command{
		Use:   "verifyctl",
		Short: "Client for the content verification server",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "server base URL")
	root.PersistentFlags().StringVar(&authToken, "token", "", "bearer token")

	root.AddCommand(verifyCmd(), activeCmd(), modulesCmd(), cancelCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func verifyCmd() *cobra.Command {
	var (
		domain    string
		urgency   string
		contentID string
		textFile  string
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Submit content for verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(textFile, args)
			if err != nil {
				return err
			}

			payload := map[string]any{
				"content": map[string]any{
					"id":             contentID,
					"extracted_text": text,
					"metadata":       map[string]string{"domain": domain},
				},
				"domain":  domain,
				"urgency": urgency,
			}
			if threshold >= 0 {
				payload["options"] = map[string]any{"confidence_threshold": threshold}
			}

			return post("/v1/verifications", payload)
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "legal", "content domain (legal, financial, healthcare, insurance)")
	cmd.Flags().StringVar(&urgency, "urgency", "medium", "urgency (low, medium, high)")
	cmd.Flags().StringVar(&contentID, "id", fmt.Sprintf("cli-%d", time.Now().UnixNano()), "content id")
	cmd.Flags().StringVar(&textFile, "file", "", "read content text from file instead of args")
	cmd.Flags().IntVar(&threshold, "threshold", -1, "confidence threshold (0-100, -1 to omit)")
	return cmd
}

func activeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the in-flight verification count",
		RunE: func(cmd *cobra.Command, args []string) error {
			return get("/v1/verifications/active")
		},
	}
}

func modulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List registered domain modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return get("/v1/modules")
		},
	}
}

func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <verification-id>",
		Short: "Cancel an in-flight verification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequest(http.MethodDelete, serverURL+"/v1/verifications/"+args[0], nil)
			if err != nil {
				return err
			}
			return send(req)
		},
	}
}

func readText(textFile string, args []string) (string, error) {
	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", textFile, err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("provide content text as an argument or via --file")
	}
	return args[0], nil
}

func post(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, serverURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return send(req)
}

func get(path string) error {
	req, err := http.NewRequest(http.MethodGet, serverURL+path, nil)
	if err != nil {
		return err
	}
	return send(req)
}

func send(req *http.Request) error {
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(raw))
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
