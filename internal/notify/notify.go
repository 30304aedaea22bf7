// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify hands notifications to the external delivery worker.
// Nothing here talks to a push provider; a job is accepted once it sits
// on the queue.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"nikshay/internal/config"
	"nikshay/internal/family"
)

// Payload is the message shown on the subscriber's device.
type Payload struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Link      string    `json:"link"`
	TypeTitle string    `json:"typeTitle"`
	Family    string    `json:"family"`
	NodeID    uuid.UUID `json:"nodeId"`
}

// Queue accepts notification jobs for asynchronous delivery.
type Queue interface {
	Enqueue(ctx context.Context, notificationID uuid.UUID, payload Payload, tokens []string, typeTag string) error
}

// Job is the JSON document pushed onto the queue list.
type Job struct {
	NotificationID uuid.UUID `json:"notificationId"`
	Payload        Payload   `json:"payload"`
	DeviceTokens   []string  `json:"deviceTokens"`
	Type           string    `json:"type"`
	EnqueuedAt     time.Time `json:"enqueuedAt"`
}

// RedisQueue pushes jobs onto a Valkey list consumed by the delivery worker.
type RedisQueue struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewRedisQueue creates a queue writing to the list named key.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key, now: time.Now}
}

// Enqueue serializes the job and LPUSHes it. The worker pops from the
// other end, so jobs are delivered in enqueue order.
func (q *RedisQueue) Enqueue(ctx context.Context, notificationID uuid.UUID, payload Payload, tokens []string, typeTag string) error {
	job := Job{
		NotificationID: notificationID,
		Payload:        payload,
		DeviceTokens:   tokens,
		Type:           typeTag,
		EnqueuedAt:     q.now().UTC(),
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal notification job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("enqueue notification %s: %w", notificationID, err)
	}
	return nil
}

// LinkBuilder builds the deep links embedded in notifications.
type LinkBuilder struct {
	base string
}

// NewLinkBuilder creates a LinkBuilder from the notification settings.
func NewLinkBuilder(cfg config.Notification) *LinkBuilder {
	return &LinkBuilder{base: strings.TrimRight(cfg.DeepLinkBaseURL, "/")}
}

// Node returns the deep link opening a node of the given family in the app.
func (b *LinkBuilder) Node(fam family.Family, id uuid.UUID) string {
	v := url.Values{}
	v.Set("id", id.String())
	return b.base + "/" + fam.Path + "?" + v.Encode()
}
