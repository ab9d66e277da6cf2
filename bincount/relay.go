package bincount

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/models"
	"github.com/pragadastech/wms-ai-py2/netsuite"
)

const storeChunkSize = 100

var validate = validator.New()

type ItemCount struct {
	ItemId     *int   `json:"itemId" validate:"required"`
	ItemName   string `json:"itemName,omitempty"`
	Quantity   *int   `json:"quantity" validate:"required,gte=0"`
	LocationId int    `json:"locationId,omitempty"`
}

// Submission is the payload a warehouse scanner posts after counting a bin.
// Action is a discriminant and must be the literal "binCount".
type Submission struct {
	Action       string      `json:"action" validate:"required,eq=binCount"`
	Location     *int        `json:"location" validate:"required"`
	BinId        *int        `json:"binId" validate:"required"`
	BinName      string      `json:"binName,omitempty"`
	LocationName string      `json:"locationName,omitempty"`
	UserName     string      `json:"userName,omitempty"`
	ItemData     []ItemCount `json:"itemData" validate:"required,min=1,dive"`
}

func (s Submission) Validate() error {
	if err := validate.Struct(s); err != nil {
		return netsuite.NewValidationError("invalid bin count submission: %v", err)
	}
	return nil
}

// UpstreamRelay is the slice of the restlet client the relay needs.
type UpstreamRelay interface {
	UpdateBinCountRecords(ctx context.Context, payload interface{}) (json.RawMessage, error)
}

// Service persists bin counts and forwards them upstream through the shared
// retry policy and breaker.
type Service struct {
	db      *gorm.DB
	relay   UpstreamRelay
	breaker *netsuite.Breaker
	retry   netsuite.RetryPolicy
}

func NewService(db *gorm.DB, relay UpstreamRelay, breaker *netsuite.Breaker) *Service {
	return &Service{
		db:      db,
		relay:   relay,
		breaker: breaker,
		retry:   netsuite.NewRetryPolicy(3, 2*time.Second),
	}
}

// Relay forwards one payload to the upstream bin-count action.
func (s *Service) Relay(ctx context.Context, payload interface{}) (json.RawMessage, error) {
	result, err := s.retry.Do(ctx, s.breaker, "update_bin_count_records", func() (interface{}, error) {
		return s.relay.UpdateBinCountRecords(ctx, payload)
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

// SubmitResult summarizes one accepted submission.
type SubmitResult struct {
	Message          string          `json:"message"`
	TotalRecords     int             `json:"total_records"`
	BinsProcessed    int             `json:"bins_processed"`
	ItemsProcessed   int             `json:"items_processed"`
	NetsuiteResponse json.RawMessage `json:"netsuite_response,omitempty"`
}

// Submit validates, persists, relays and writes the acknowledgment back onto
// the stored record. A failed relay leaves the record unacknowledged for the
// poller to resend.
func (s *Service) Submit(ctx context.Context, sub Submission) (*SubmitResult, error) {
	logger := config.GetLogger()
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}
	record := models.BinCountRecord{
		BinId:   strconv.Itoa(*sub.BinId),
		BinData: payload,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		config.LogError(logger, "bincount", "Submit", "persisting bin count", record.BinId, err)
		return nil, err
	}

	ack, err := s.Relay(ctx, sub)
	if err != nil {
		config.LogError(logger, "bincount", "Submit", "relay failed, record left for poller", record.BinId, err)
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&record).Updates(map[string]interface{}{
		"netsuite_response": json.RawMessage(ack),
		"updated_at":        time.Now().UTC(),
	}).Error; err != nil {
		config.LogError(logger, "bincount", "Submit", "writing acknowledgment", record.BinId, err)
		return nil, err
	}

	return &SubmitResult{
		Message:          "Bin inventory data successfully sent to NetSuite",
		TotalRecords:     len(sub.ItemData),
		BinsProcessed:    1,
		ItemsProcessed:   len(sub.ItemData),
		NetsuiteResponse: ack,
	}, nil
}

// Metadata carries the display names attached to a bulk scan session.
type Metadata struct {
	BinName      string `json:"binName"`
	LocationName string `json:"locationName"`
	UserName     string `json:"userName"`
}

// StoreBinCounts persists one record per bin from a binId -> items map,
// writing in chunks of 100. Nothing is relayed here; the poller picks the
// records up.
func (s *Service) StoreBinCounts(ctx context.Context, binData map[string][]ItemCount, metadata Metadata) (*SubmitResult, error) {
	logger := config.GetLogger()
	if len(binData) == 0 {
		return nil, netsuite.NewValidationError("binData is empty")
	}

	records := make([]models.BinCountRecord, 0, len(binData))
	items := 0
	for binId, binItems := range binData {
		id, err := strconv.Atoi(binId)
		if err != nil {
			return nil, netsuite.NewValidationError("binId %q is not numeric", binId)
		}
		location := 0
		if len(binItems) > 0 && binItems[0].LocationId != 0 {
			location = binItems[0].LocationId
		}
		sub := Submission{
			Action:       "binCount",
			Location:     &location,
			BinId:        &id,
			BinName:      metadata.BinName,
			LocationName: metadata.LocationName,
			UserName:     metadata.UserName,
			ItemData:     binItems,
		}
		payload, err := json.Marshal(sub)
		if err != nil {
			return nil, err
		}
		records = append(records, models.BinCountRecord{BinId: binId, BinData: payload})
		items += len(binItems)
	}

	if err := s.db.WithContext(ctx).CreateInBatches(records, storeChunkSize).Error; err != nil {
		config.LogError(logger, "bincount", "StoreBinCounts", "bulk insert", map[string]interface{}{"bins": len(records)}, err)
		return nil, err
	}

	return &SubmitResult{
		Message:        "Bin count data stored successfully",
		TotalRecords:   len(records),
		BinsProcessed:  len(records),
		ItemsProcessed: items,
	}, nil
}
