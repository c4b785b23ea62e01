package skipcash

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Client queries the SkipCash payment API. The reconciliation worker uses it
// to resolve payments whose webhook never arrived.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", apiKey).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

type paymentResponse struct {
	ResultObj struct {
		ID       string `json:"id"`
		StatusID int    `json:"statusId"`
	} `json:"resultObj"`
	ReturnCode int `json:"returnCode"`
}

// PaymentStatus fetches the current StatusId for a vendor payment id.
func (c *Client) PaymentStatus(ctx context.Context, paymentID string) (int, error) {
	var out paymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/v1/payments/" + paymentID)
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("skipcash: payment lookup returned %s", resp.Status())
	}
	return out.ResultObj.StatusID, nil
}
