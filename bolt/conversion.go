package bolt

import (
	"bytes"
	"context"
	"encoding/json"

	tts "github.com/Deeks1996/tts-server"
)

// Bucket names.
var (
	bucketConversions     = []byte("Conversions")
	bucketUserConversions = []byte("Users.Conversions")
)

// Ensure service implements interface.
var _ tts.ConversionService = &ConversionService{}

// ConversionService represents a service to manage conversion records.
// Records are insert-only; this service never updates or deletes them,
// so an audio object whose record insert failed stays orphaned until an
// external reconciliation job handles it.
type ConversionService struct {
	db *DB
}

// NewConversionService returns a new instance of ConversionService.
func NewConversionService(db *DB) *ConversionService {
	return &ConversionService{db: db}
}

// CreateConversion creates a new conversion record. The record's ID is
// assigned from the bucket sequence and CreatedAt is set from the
// transaction clock if unset.
func (s *ConversionService) CreateConversion(ctx context.Context, conversion *tts.Conversion) error {
	tx, err := s.db.BeginAuth(ctx, true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := createConversion(ctx, tx, conversion); err != nil {
		return err
	}
	return tx.Commit()
}

// ConversionsByUserID returns all conversions owned by a user, oldest first.
func (s *ConversionService) ConversionsByUserID(ctx context.Context, userID string) ([]*tts.Conversion, error) {
	tx, err := s.db.BeginAuth(ctx, false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return userConversions(ctx, tx, userID)
}

func createConversion(ctx context.Context, tx *Tx, conversion *tts.Conversion) error {
	// Validate record.
	if conversion.UserID == "" {
		return tts.ErrConversionUserRequired
	} else if conversion.AudioURL == "" {
		return tts.ErrAudioURLRequired
	} else if conversion.Text == "" {
		return tts.ErrTextRequired
	}

	bkt, err := tx.CreateBucketIfNotExists(bucketConversions)
	if err != nil {
		return err
	}

	// Retrieve next sequence.
	id, err := bkt.NextSequence()
	if err != nil {
		return err
	}
	conversion.ID = int(id)

	// Update timestamp.
	if conversion.CreatedAt.IsZero() {
		conversion.CreatedAt = tx.Now
	}

	// Save data & add to the owner index.
	buf, err := json.Marshal(conversion)
	if err != nil {
		return err
	} else if err := bkt.Put(itob(conversion.ID), buf); err != nil {
		return err
	}

	idx, err := tx.CreateBucketIfNotExists(bucketUserConversions)
	if err != nil {
		return err
	}
	return idx.Put(makeUserIndexKey(conversion.UserID, conversion.ID), nil)
}

func findConversionByID(ctx context.Context, tx *Tx, id int) (*tts.Conversion, error) {
	bkt := tx.Bucket(bucketConversions)
	if bkt == nil {
		return nil, nil
	}

	buf := bkt.Get(itob(id))
	if buf == nil {
		return nil, nil
	}

	var conversion tts.Conversion
	if err := json.Unmarshal(buf, &conversion); err != nil {
		return nil, err
	}
	return &conversion, nil
}

func userConversions(ctx context.Context, tx *Tx, userID string) ([]*tts.Conversion, error) {
	bkt := tx.Bucket(bucketUserConversions)
	if bkt == nil {
		return nil, nil
	}

	// Iterate over the owner index.
	a := make([]*tts.Conversion, 0, 10)
	prefix := userIndexPrefix(userID)
	cur := bkt.Cursor()
	for k, _ := cur.Seek(prefix); bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
		conversion, err := findConversionByID(ctx, tx, btoi(k[len(prefix):]))
		if err != nil {
			return nil, err
		} else if conversion == nil {
			continue
		}
		a = append(a, conversion)
	}
	return a, nil
}
