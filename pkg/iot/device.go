package iot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"liyu1981.xyz/container-monitor-service/pkg/common"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

func deviceLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTDevice),
	)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: device name is required", common.ErrMalformedPayload)
	}
	return name, nil
}

func unknownDevice(err error, deviceID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %d", common.ErrUnknownDevice, deviceID)
	}
	return err
}

func (i *IOT) createDevice(ctx context.Context, name string) (*models.Device, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	device := models.Device{Name: name}
	if err := i.Db.Conn.WithContext(ctx).Create(&device).Error; err != nil {
		return nil, err
	}

	deviceLogger().Info("Created device", zap.Reflect("device", device))
	return &device, nil
}

func (i *IOT) renameDevice(ctx context.Context, deviceID uint, name string) (*models.Device, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	conn := i.Db.Conn.WithContext(ctx)

	var device models.Device
	if err := conn.First(&device, deviceID).Error; err != nil {
		return nil, unknownDevice(err, deviceID)
	}

	old := device.Name
	if err := conn.Model(&device).Update("name", name).Error; err != nil {
		return nil, err
	}

	deviceLogger().Info("Renamed device",
		zap.Uint("device_id", deviceID), zap.String("from", old), zap.String("to", name))
	return &device, nil
}

func (i *IOT) listDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	err := i.Db.Conn.WithContext(ctx).Order("id asc").Find(&devices).Error
	return devices, err
}

func (i *IOT) getDevice(ctx context.Context, deviceID uint) (*models.Device, error) {
	var device models.Device
	if err := i.Db.Conn.WithContext(ctx).First(&device, deviceID).Error; err != nil {
		return nil, unknownDevice(err, deviceID)
	}
	return &device, nil
}

// deleteDevice removes the device with its reports and alerts.
func (i *IOT) deleteDevice(ctx context.Context, deviceID uint) error {
	unlock := i.locks.Lock(deviceID)
	defer unlock()

	err := i.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", deviceID).Delete(&models.Alert{}).Error; err != nil {
			return err
		}
		if err := tx.Where("device_id = ?", deviceID).Delete(&models.Report{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Device{}, deviceID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", common.ErrUnknownDevice, deviceID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	deviceLogger().Info("Deleted device", zap.Uint("device_id", deviceID))
	return nil
}

type IDeviceImpl struct {
	iot *IOT
}

func (id *IDeviceImpl) CreateDevice(ctx context.Context, name string) (*models.Device, error) {
	return id.iot.createDevice(ctx, name)
}

func (id *IDeviceImpl) RenameDevice(ctx context.Context, deviceID uint, name string) (*models.Device, error) {
	return id.iot.renameDevice(ctx, deviceID, name)
}

func (id *IDeviceImpl) ListDevices(ctx context.Context) ([]models.Device, error) {
	return id.iot.listDevices(ctx)
}

func (id *IDeviceImpl) GetDevice(ctx context.Context, deviceID uint) (*models.Device, error) {
	return id.iot.getDevice(ctx, deviceID)
}

func (id *IDeviceImpl) DeleteDevice(ctx context.Context, deviceID uint) error {
	return id.iot.deleteDevice(ctx, deviceID)
}

func (i *IOT) GetIDevice() IDevice {
	return &IDeviceImpl{iot: i}
}
