package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"renthaven/internal/domain"
	"renthaven/internal/modules/payment"
)

func paymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Payment utilities",
	}
	cmd.AddCommand(paymentWatchCmd())
	return cmd
}

// apiStatusSource polls the running API's status endpoint.
type apiStatusSource struct {
	baseURL string
	token   string
	client  *http.Client
}

type statusEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Status string `json:"status"`
	} `json:"data"`
}

func (s *apiStatusSource) Status(ctx context.Context, checkoutID string) (domain.PaymentStatus, error) {
	u := fmt.Sprintf("%s/api/v1/payments/status?checkout_id=%s", s.baseURL, url.QueryEscape(checkoutID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", payment.ErrUnknownCheckout
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	var env statusEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", err
	}
	return domain.PaymentStatus(env.Data.Status), nil
}

func paymentWatchCmd() *cobra.Command {
	var (
		apiURL   string
		token    string
		interval time.Duration
		attempts uint64
	)

	cmd := &cobra.Command{
		Use:   "watch <checkout-id>",
		Short: "Poll a checkout until it reaches a terminal state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checkoutID := args[0]

			source := &apiStatusSource{
				baseURL: apiURL,
				token:   token,
				client:  &http.Client{Timeout: 10 * time.Second},
			}
			poller := payment.NewPoller(source, nil,
				payment.WithInterval(interval),
				payment.WithMaxAttempts(attempts),
				payment.WithTransitionFunc(func(id string, state payment.PollState) {
					fmt.Printf("%s  %s\n", time.Now().Format(time.RFC3339), state)
				}),
			)

			state, err := poller.Wait(cmd.Context(), checkoutID)
			if err != nil {
				return err
			}
			fmt.Printf("final state: %s\n", state)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&token, "token", "", "bearer token for the status endpoint")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "poll interval")
	cmd.Flags().Uint64Var(&attempts, "attempts", 60, "maximum poll attempts before giving up")
	return cmd
}
