package localstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type DeviceStore struct{ db *gorm.DB }

func (s *Store) Devices() *DeviceStore { return &DeviceStore{db: s.DB} }

func (d *DeviceStore) Create(ctx context.Context, device *Device) error {
	return d.db.WithContext(ctx).Create(device).Error
}

// GetByUser returns the device registered for the user. The schema keeps a
// unique index on user_id, so there is at most one row to find.
func (d *DeviceStore) GetByUser(ctx context.Context, userID string) (*Device, error) {
	var device Device
	if err := d.db.WithContext(ctx).First(&device, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &device, nil
}

// IncrementSequence advances the device's message sequence number and returns
// the new value. The bump happens in SQL so concurrent callers cannot lose an
// increment.
func (d *DeviceStore) IncrementSequence(ctx context.Context, deviceID int64) (int64, error) {
	tx := d.db.WithContext(ctx).
		Model(&Device{}).
		Where("device_id = ?", deviceID).
		Update("msg_sequence_num", gorm.Expr("msg_sequence_num + 1"))
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, ErrRecordNotFound
	}
	var device Device
	if err := d.db.WithContext(ctx).First(&device, "device_id = ?", deviceID).Error; err != nil {
		return 0, err
	}
	return device.MsgSequenceNum, nil
}

func (d *DeviceStore) SetSharedKey(ctx context.Context, deviceID int64, key string) error {
	tx := d.db.WithContext(ctx).
		Model(&Device{}).
		Where("device_id = ?", deviceID).
		Update("shared_key", key)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
