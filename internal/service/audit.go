package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

// recordEvent пишет событие аудита. details сериализуется в JSON.
func recordEvent(
	ctx context.Context,
	events repository.EventRepository,
	eventType model.EventType,
	userID, reservationID *uuid.UUID,
	details map[string]any,
) error {
	e := &model.Event{
		EventType:     eventType,
		UserID:        userID,
		ReservationID: reservationID,
	}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		e.Details = datatypes.JSON(raw)
	}
	return events.Create(ctx, e)
}
