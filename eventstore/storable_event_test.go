package eventstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	occurredAt := time.Unix(0, 0).UTC()
	validJSON := []byte(`{"BookID": "b-1"}`)

	testCases := []struct {
		name         string
		payloadJSON  []byte
		metadataJSON []byte
		eventType    string
		expectedErr  error
	}{
		{name: "empty event type", eventType: "", payloadJSON: validJSON, metadataJSON: validJSON, expectedErr: eventstore.ErrMissingEventType},
		{name: "invalid payload JSON", eventType: "BookBorrowed", payloadJSON: []byte(`{"BookID": b-1}`), metadataJSON: validJSON, expectedErr: eventstore.ErrInvalidPayloadJSON},
		{name: "empty payload JSON", eventType: "BookBorrowed", payloadJSON: []byte(``), metadataJSON: validJSON, expectedErr: eventstore.ErrInvalidPayloadJSON},
		{name: "nil payload JSON", eventType: "BookBorrowed", payloadJSON: nil, metadataJSON: validJSON, expectedErr: eventstore.ErrInvalidPayloadJSON},
		{name: "invalid metadata JSON", eventType: "BookBorrowed", payloadJSON: validJSON, metadataJSON: []byte(`{`), expectedErr: eventstore.ErrInvalidMetadataJSON},
		{name: "nil metadata JSON", eventType: "BookBorrowed", payloadJSON: validJSON, metadataJSON: nil, expectedErr: eventstore.ErrInvalidMetadataJSON},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := eventstore.BuildStorableEvent(tc.eventType, occurredAt, tc.payloadJSON, tc.metadataJSON)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_BuildStorableEventWithEmptyMetadata_Success(t *testing.T) {
	// arrange
	occurredAt := time.Unix(0, 0).UTC()
	payload := []byte(`{"LoanID": "l-1"}`)

	// act
	event, err := eventstore.BuildStorableEventWithEmptyMetadata("BookReturned", occurredAt, payload)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "BookReturned", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.Equal(t, payload, event.PayloadJSON)
	assert.Equal(t, []byte("{}"), event.MetadataJSON)
}

func Test_ConsistencyLevel_DefaultsToStrong(t *testing.T) {
	// arrange
	ctx := t.Context()

	// act + assert
	assert.Equal(t, eventstore.StrongConsistency, eventstore.GetConsistencyLevel(ctx))
	assert.Equal(t, eventstore.EventualConsistency, eventstore.GetConsistencyLevel(eventstore.WithEventualConsistency(ctx)))
	assert.Equal(t, "strong", eventstore.GetConsistencyLevel(eventstore.WithStrongConsistency(ctx)).String())
}
