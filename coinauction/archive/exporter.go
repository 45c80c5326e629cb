package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hypemarket/coinauction/coinauction/database/models"
)

// Exporter uploads settled-auction records to S3-compatible object storage,
// giving reporting and dispute handling a durable trail outside the ledger.
type Exporter struct {
	client *s3.Client
	bucket string
	root   string
}

func NewExporter(key, secret, region, bucket, root string) (*Exporter, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load object storage config: %w", err)
	}

	return &Exporter{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		root:   strings.Trim(root, "/"),
	}, nil
}

// SettlementRecord is the archived shape of a closed auction.
type SettlementRecord struct {
	AuctionCode string    `json:"auction_code"`
	Title       string    `json:"title"`
	SellerID    string    `json:"seller_id"`
	WinnerID    string    `json:"winner_id,omitempty"`
	FinalAmount int64     `json:"final_amount"`
	Status      string    `json:"status"`
	EndedAt     time.Time `json:"ended_at"`
	BidCount    int       `json:"bid_count"`
	ArchivedAt  time.Time `json:"archived_at"`
}

// ExportSettlement writes the record under <root>/<year>/<code>.json.
func (e *Exporter) ExportSettlement(ctx context.Context, auction *models.Auction) error {
	record := SettlementRecord{
		AuctionCode: auction.AuctionCode,
		Title:       auction.Title,
		SellerID:    auction.SellerID,
		WinnerID:    auction.WinnerID,
		FinalAmount: auction.CurrentBid,
		Status:      string(auction.Status),
		EndedAt:     auction.EndTime,
		BidCount:    auction.BidCount,
		ArchivedAt:  time.Now(),
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement record: %w", err)
	}

	key := fmt.Sprintf("%s/%d/%s.json", e.root, auction.EndTime.Year(), auction.AuctionCode)
	contentType := "application/json"

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &e.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload settlement record: %w", err)
	}

	slog.Info("Settlement archived",
		slog.String("auction_code", auction.AuctionCode),
		slog.String("key", key))

	return nil
}
