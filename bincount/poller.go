package bincount

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/models"
)

const defaultPollInterval = 30 * time.Second

// pendingRelayer is the slice of Service the poller drives; tests supply a
// fake.
type pendingRelayer interface {
	ResendUnacknowledged(ctx context.Context) error
}

// Poller periodically resends bin-count records NetSuite has not yet
// acknowledged. Every error is logged and contained; the loop only exits
// when Stop is called or the context is cancelled.
type Poller struct {
	svc      pendingRelayer
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewPoller(svc pendingRelayer, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{svc: svc, interval: interval}
}

func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		logger := config.GetLogger()
		logger.WithField("interval", p.interval.String()).Info("bin count poller started")

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("bin count poller stopped")
				return
			case <-ticker.C:
				if err := p.svc.ResendUnacknowledged(ctx); err != nil {
					config.LogError(logger, "bincount", "Poller", "resend pass failed", nil, err)
				}
			}
		}
	}()
}

// Stop signals the loop and waits for the in-flight tick to finish.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// ResendUnacknowledged relays every record still waiting for a NetSuite
// acknowledgment. Per-record failures are logged and skipped so one bad
// record never blocks the rest.
func (s *Service) ResendUnacknowledged(ctx context.Context) error {
	logger := config.GetLogger()

	var records []models.BinCountRecord
	if err := s.db.WithContext(ctx).
		Where("netsuite_response IS NULL").
		Find(&records).Error; err != nil {
		config.LogError(logger, "bincount", "ResendUnacknowledged", "querying unacknowledged records", nil, err)
		return err
	}
	if len(records) == 0 {
		return nil
	}
	logger.WithField("records", len(records)).Info("resending unacknowledged bin counts")

	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.resendRecord(ctx, &records[i])
	}
	return nil
}

func (s *Service) resendRecord(ctx context.Context, record *models.BinCountRecord) {
	logger := config.GetLogger()

	payload := formatPayload(record)
	if payload == nil {
		logger.WithField("bin_id", record.BinId).Warn("record has no usable bin_data")
		return
	}

	ack, err := s.Relay(ctx, payload)
	if err != nil {
		config.LogError(logger, "bincount", "resendRecord", "relay failed", record.BinId, err)
		return
	}

	if err := s.db.WithContext(ctx).Model(record).Updates(map[string]interface{}{
		"netsuite_response": json.RawMessage(ack),
		"updated_at":        time.Now().UTC(),
	}).Error; err != nil {
		config.LogError(logger, "bincount", "resendRecord", "writing acknowledgment", record.BinId, err)
	}
}

// formatPayload rebuilds the upstream payload from a stored record. Records
// already holding a complete submission go out verbatim; partial shapes get
// wrapped into the expected envelope.
func formatPayload(record *models.BinCountRecord) interface{} {
	if len(record.BinData) == 0 {
		return nil
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(record.BinData, &fields); err != nil || len(fields) == 0 {
		return nil
	}

	complete := true
	for _, key := range []string{"action", "binId", "itemData", "location"} {
		if _, ok := fields[key]; !ok {
			complete = false
			break
		}
	}
	if complete {
		return fields
	}

	binId, err := strconv.Atoi(record.BinId)
	if err != nil {
		return nil
	}
	quantity := 0.0
	if q, ok := fields["quantity"].(float64); ok {
		quantity = q
	}
	location := 0.0
	if l, ok := fields["locationId"].(float64); ok {
		location = l
	}
	return map[string]interface{}{
		"action":   "binCount",
		"binId":    binId,
		"location": int(location),
		"itemData": []map[string]interface{}{
			{"itemId": fields["itemId"], "quantity": int(quantity)},
		},
	}
}
