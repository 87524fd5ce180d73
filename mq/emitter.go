package mq

import (
	"context"
	"encoding/json"
	"log"

	"waitline/live"
	"waitline/rdx"
	"waitline/utils"
)

const updatesChannel = "wait-updates"

// instanceID lets a process ignore its own relayed publishes.
var instanceID = utils.GetUUID()

type envelope struct {
	Origin string      `json:"origin"`
	Update live.Update `json:"update"`
}

// Emit publishes a place update to Redis so other instances can fan it
// out to their own viewers. A single-instance deployment works the same
// with or without the relay; failures here are logged and ignored.
func Emit(u live.Update) {
	data, err := json.Marshal(envelope{Origin: instanceID, Update: u})
	if err != nil {
		log.Printf("[Emit] Failed to marshal update: %v", err)
		return
	}
	if err := rdx.Conn.Publish(context.Background(), updatesChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish update to Redis: %v", err)
	}
}

// StartRelay subscribes to the shared channel and replays updates from
// other instances into the local hub.
func StartRelay(hub *live.Hub) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, updatesChannel)
	ch := sub.Channel()

	log.Println("[Relay] Listening for place updates...")

	for msg := range ch {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("[Relay] Failed to parse update: %v", err)
			continue
		}
		if env.Origin == instanceID {
			continue
		}
		hub.Publish(env.Update)
	}
}
