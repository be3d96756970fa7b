package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/frahmantamala/contract-portal/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("should deliver published events to every subscriber", func() {
		var calls int32
		for i := 0; i < 3; i++ {
			bus.Subscribe(events.ContractCreated, func(ctx context.Context, e events.Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}

		Expect(bus.Publish(context.Background(), events.NewContractCreated(1, 2, 3, "draft"))).To(Succeed())
		bus.Wait()
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
		Expect(bus.HandlerCount(events.ContractCreated)).To(Equal(3))
	})

	It("should keep running handlers after the publishing context is cancelled", func() {
		var seenErr error
		bus.Subscribe(events.CommentAdded, func(ctx context.Context, e events.Event) error {
			seenErr = ctx.Err()
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewCommentAdded(1, 2, 3))).To(Succeed())
		cancel()
		bus.Wait()
		Expect(seenErr).To(BeNil())
	})

	It("should survive a panicking handler", func() {
		bus.Subscribe(events.UserDeleted, func(ctx context.Context, e events.Event) error {
			panic("boom")
		})
		Expect(bus.Publish(context.Background(), events.NewUserEvent(events.UserDeleted, 1, 2, nil))).To(Succeed())
		bus.Wait()
	})

	It("should ignore events nobody listens to", func() {
		Expect(bus.Publish(context.Background(), events.NewEvent("nobody.cares", nil))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewEvent("nobody.cares", nil))).To(Succeed())
	})

	It("should surface handler errors from PublishSync", func() {
		bus.Subscribe(events.PermissionGranted, func(ctx context.Context, e events.Event) error {
			return errors.New("sink unavailable")
		})
		err := bus.PublishSync(context.Background(), events.NewPermissionEvent(events.PermissionGranted, 1, 2, 3, 4))
		Expect(err).To(MatchError(ContainSubstring("sink unavailable")))
	})

	It("should stamp ids and merge extra payload fields", func() {
		e := events.NewUserEvent(events.UserRoleChanged, 5, 1, map[string]interface{}{"role": "admin"})
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.OccurredAt()).NotTo(BeZero())
		Expect(e.Payload()).To(HaveKeyWithValue("role", "admin"))
		Expect(e.Payload()).To(HaveKeyWithValue("user_id", int64(5)))
	})
})
