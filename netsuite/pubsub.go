package netsuite

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/utils"
)

type SyncPubSubPayload struct {
	Target        string `json:"target"`
	CorrelationId string `json:"correlation_id"`
}

type PubSubPushEnvelope struct {
	Message struct {
		Data      []byte `json:"data"`
		MessageId string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

func syncTopicName() string {
	name := strings.TrimSpace(os.Getenv("NETSUITE_SYNC_TOPIC"))
	if name == "" {
		name = "netsuite-sync"
	}
	return name
}

// PublishSync queues one sync run for the named target.
func PublishSync(ctx context.Context, target string) error {
	client, err := config.GetClient(ctx)
	if err != nil {
		return err
	}

	topicName := syncTopicName()
	topic := client.Topic(topicName)
	if utils.EnvBoolDefault("NETSUITE_SYNC_CREATE_TOPIC", false) {
		topic, err = config.CreateTopicIfNotExists(client, topicName)
		if err != nil {
			return err
		}
	}

	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	payload := SyncPubSubPayload{Target: target, CorrelationId: correlationId}
	data, _ := json.Marshal(payload)
	res := topic.Publish(ctx, &pubsub.Message{Data: data})
	_, err = res.Get(ctx)
	return err
}

// SyncPublishHandler accepts {"target": "bins"} and queues the sync without
// waiting for it.
func SyncPublishHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Target string `json:"target" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target is required"})
			return
		}
		if _, ok := syncTargets[req.Target]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sync target: " + req.Target})
			return
		}
		if err := PublishSync(c.Request.Context(), req.Target); err != nil {
			config.LogError(config.GetLogger(), "netsuite", "SyncPublishHandler", "publishing sync", req.Target, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue sync"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "sync queued", "target": req.Target})
	}
}

// PubSubPushHandler runs queued syncs delivered by the push subscription.
// It always acks: a failed sync is logged and retried by the next publish,
// not by endless redelivery.
func PubSubPushHandler(svc *SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.EnvBoolDefault("ENABLE_NETSUITE_PUBSUB_PUSH_ENDPOINT", true) {
			c.Status(http.StatusNoContent)
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusNoContent)
			return
		}

		var envelope PubSubPushEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			c.Status(http.StatusNoContent)
			return
		}

		var payload SyncPubSubPayload
		if err := json.Unmarshal(envelope.Message.Data, &payload); err != nil {
			c.Status(http.StatusNoContent)
			return
		}

		target, ok := syncTargets[payload.Target]
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		action, err := ActionForTable(target.Table)
		if err != nil {
			config.LogError(config.GetLogger(), "netsuite", "PubSubPushHandler", "resolving action", target.Table, err)
			c.Status(http.StatusNoContent)
			return
		}

		ctx := c.Request.Context()
		if payload.CorrelationId != "" {
			ctx = utils.SetCorrelationIdInContext(ctx, payload.CorrelationId)
		}
		if _, err := svc.SyncFromUpstream(ctx, action, target.Table); err != nil {
			config.LogError(config.GetLogger(), "netsuite", "PubSubPushHandler", "queued sync failed", payload.Target, err)
		}
		c.Status(http.StatusNoContent)
	}
}
