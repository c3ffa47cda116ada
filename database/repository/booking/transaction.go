package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"parkly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// runInTransaction executes txnFn inside a Mongo session transaction,
// aborting on any error so partial application is never observable.
func (r *MongoBookingRepo) runInTransaction(ctx context.Context, txnFn func(sc mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// ReserveAtomically inserts the booking, CAS-transitions the space
// free -> reserved and decrements the facility's spare capacity, all in
// one transaction. Every guard failure surfaces as ErrConflict so the
// coordinator can fall through to the next candidate.
func (r *MongoBookingRepo) ReserveAtomically(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}

		spaceFilter := bson.M{"id": booking.SpaceID, "status": models.SpaceFree}
		spaceUpdate := bson.M{"$set": bson.M{"status": models.SpaceReserved, "updatedAt": now}}
		res, err := r.spaceColl.UpdateOne(sc, spaceFilter, spaceUpdate)
		if err != nil {
			return fmt.Errorf("reserve space failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrConflict
		}

		facilityFilter := bson.M{"id": booking.FacilityID, "capacityAvailable": bson.M{"$gt": 0}}
		facilityUpdate := bson.M{
			"$inc": bson.M{"capacityAvailable": -1},
			"$set": bson.M{"updatedAt": now},
		}
		res, err = r.facilityColl.UpdateOne(sc, facilityFilter, facilityUpdate)
		if err != nil {
			return fmt.Errorf("decrement facility capacity failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrConflict
		}

		return nil
	}

	if err := r.runInTransaction(ctx, txnFn); err != nil {
		if err == ErrConflict {
			return ErrConflict
		}
		return fmt.Errorf("reservation transaction failed: %w", err)
	}
	return nil
}

// CancelAtomically transitions the booking to cancelled, frees its
// space and returns the capacity unit, in one transaction. The booking
// guard makes repeated cancellation a no-op: once the status has left
// confirmed, no part of the unit applies again, so capacity is never
// incremented twice.
func (r *MongoBookingRepo) CancelAtomically(ctx context.Context, booking *models.Booking) error {
	now := time.Now()

	txnFn := func(sc mongo.SessionContext) error {
		bookingFilter := bson.M{"id": booking.ID, "status": models.BookingConfirmed}
		bookingUpdate := bson.M{"$set": bson.M{"status": models.BookingCancelled, "updatedAt": now}}
		res, err := r.coll.UpdateOne(sc, bookingFilter, bookingUpdate)
		if err != nil {
			return fmt.Errorf("cancel booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrConflict
		}

		spaceFilter := bson.M{
			"id":     booking.SpaceID,
			"status": bson.M{"$in": bson.A{models.SpaceReserved, models.SpaceOccupied}},
		}
		spaceUpdate := bson.M{"$set": bson.M{"status": models.SpaceFree, "updatedAt": now}}
		res, err = r.spaceColl.UpdateOne(sc, spaceFilter, spaceUpdate)
		if err != nil {
			return fmt.Errorf("free space failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrConflict
		}

		// Guarded increment, capped at capacityTotal. No match here only
		// means the counter is already at the cap; that is not a failure.
		facilityFilter := bson.M{
			"id":    booking.FacilityID,
			"$expr": bson.M{"$lt": bson.A{"$capacityAvailable", "$capacityTotal"}},
		}
		facilityUpdate := bson.M{
			"$inc": bson.M{"capacityAvailable": 1},
			"$set": bson.M{"updatedAt": now},
		}
		if _, err := r.facilityColl.UpdateOne(sc, facilityFilter, facilityUpdate); err != nil {
			return fmt.Errorf("increment facility capacity failed: %w", err)
		}

		return nil
	}

	if err := r.runInTransaction(ctx, txnFn); err != nil {
		if err == ErrConflict {
			return ErrConflict
		}
		return fmt.Errorf("cancellation transaction failed: %w", err)
	}
	return nil
}

// CompleteAtomically closes a running booking and releases its space
// and capacity unit together.
func (r *MongoBookingRepo) CompleteAtomically(ctx context.Context, booking *models.Booking) error {
	now := time.Now()

	txnFn := func(sc mongo.SessionContext) error {
		bookingFilter := bson.M{"id": booking.ID, "status": models.BookingInProgress}
		bookingUpdate := bson.M{"$set": bson.M{"status": models.BookingCompleted, "updatedAt": now}}
		res, err := r.coll.UpdateOne(sc, bookingFilter, bookingUpdate)
		if err != nil {
			return fmt.Errorf("complete booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrConflict
		}

		spaceFilter := bson.M{
			"id":     booking.SpaceID,
			"status": bson.M{"$in": bson.A{models.SpaceReserved, models.SpaceOccupied}},
		}
		spaceUpdate := bson.M{"$set": bson.M{"status": models.SpaceFree, "updatedAt": now}}
		res, err = r.spaceColl.UpdateOne(sc, spaceFilter, spaceUpdate)
		if err != nil {
			return fmt.Errorf("free space failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrConflict
		}

		facilityFilter := bson.M{
			"id":    booking.FacilityID,
			"$expr": bson.M{"$lt": bson.A{"$capacityAvailable", "$capacityTotal"}},
		}
		facilityUpdate := bson.M{
			"$inc": bson.M{"capacityAvailable": 1},
			"$set": bson.M{"updatedAt": now},
		}
		if _, err := r.facilityColl.UpdateOne(sc, facilityFilter, facilityUpdate); err != nil {
			return fmt.Errorf("increment facility capacity failed: %w", err)
		}

		return nil
	}

	if err := r.runInTransaction(ctx, txnFn); err != nil {
		if err == ErrConflict {
			return ErrConflict
		}
		return fmt.Errorf("completion transaction failed: %w", err)
	}
	return nil
}
