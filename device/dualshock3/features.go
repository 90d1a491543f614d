package dualshock3

import (
	"encoding/binary"
	"fmt"
)

// Features holds the controller's configuration plane: the two flash banks,
// the 4-byte runtime state driven by 0xF4 control commands, device identity
// and the flash access pointer used by 0xF1 reads and writes.
//
// Every feature response is exactly FeatureReportSize bytes, zero filled
// beyond the populated region.
type Features struct {
	flash [2][FlashBankSize]byte
	state [4]byte

	deviceMAC [6]byte
	pairedMAC [6]byte

	serial         uint32
	firmware       uint16
	controllerType byte
	pcbRevision    byte

	flashBank byte
	flashAddr byte
}

func NewFeatures() *Features {
	f := &Features{
		flash:          [2][FlashBankSize]byte{FactoryBankA, FactoryBankB},
		deviceMAC:      defaultDeviceMAC,
		serial:         defaultSerial,
		controllerType: defaultType,
		pcbRevision:    defaultPCBRevision,
	}
	f.firmware = uint16(f.flash[0][0x60])<<8 | uint16(f.flash[0][3])
	// Fresh controllers come up with input streaming enabled; the host can
	// gate it through 0xF4 at any time.
	f.state[1] = 0x01
	return f
}

// InputStreamingEnabled reports whether the input sampler may push reports
// to the interrupt IN endpoint.
func (f *Features) InputStreamingEnabled() bool {
	return f.state[1] == 0x01
}

func (f *Features) DeviceMAC() [6]byte { return f.deviceMAC }
func (f *Features) PairedMAC() [6]byte { return f.pairedMAC }
func (f *Features) Firmware() uint16   { return f.firmware }

// Get builds the 64-byte response for a GET_REPORT(feature, id).
func (f *Features) Get(id uint8) ([]byte, error) {
	r := make([]byte, FeatureReportSize)
	bankA := f.flash[0][:]

	switch id {
	case FeatureControllerInfo:
		r[0] = 0x00
		r[1] = 0x01
		copy(r[2:6], bankA[1:5])
		copy(r[6:44], bankA[0x60:])

	case FeatureFlashAccess:
		copy(r[0:5], []byte{0x57, 0x01, 0xFF, 0xFF, 0x10})
		addr := int(f.flashAddr) & 0xF0
		bank := f.flash[f.flashBank&0x01]
		for i := 0; i < 16; i++ {
			r[5+i] = bank[(addr+i)&0xFF]
		}

	case FeatureDeviceInfo:
		copy(r[0:4], []byte{0xF2, 0xFF, 0xFF, 0x00})
		for i := 0; i < 6; i++ {
			r[4+i] = f.deviceMAC[5-i]
		}
		r[10] = 0x00
		r[11] = f.controllerType
		binary.LittleEndian.PutUint32(r[12:16], f.serial)
		r[16] = f.pcbRevision
		copy(r[17:36], bankA[0x6C:])

	case FeaturePairingInfo:
		r[0] = 0x01
		r[1] = 0x00
		copy(r[2:8], f.pairedMAC[:])
		r[8] = f.deviceMAC[1]
		r[9] = f.deviceMAC[0]
		r[10] = 0x00
		r[11] = f.controllerType
		binary.LittleEndian.PutUint32(r[12:16], f.serial)
		r[16] = f.pcbRevision
		copy(r[17:36], bankA[0x6C:])

	case FeatureExtSensor:
		r[1] = 0xEF
		copy(r[2:6], bankA[1:5])
		copy(r[5:9], f.state[:])
		f.copyBankB(r[0x11:0x21], int(f.state[2]))
		r[0x30] = 0x05

	case FeatureSensorConfig:
		r[0x07] = 0xFF
		copy(r[0x11:0x25], bankA[0x8C:0xA0])
		r[0x30] = 0x05

	case FeatureSensorStatus:
		r[1] = 0x01
		r[4] = bankA[3]
		copy(r[5:9], f.state[:])
		f.copyBankB(r[0x11:0x21], int(f.state[2]))
		r[0x30] = 0x05

	default:
		return nil, &UnsupportedReportError{Type: ReportTypeFeature, ID: id}
	}
	return r, nil
}

// Set applies a SET_REPORT(feature, id).
func (f *Features) Set(id uint8, data []byte) error {
	switch id {
	case FeatureFlashAccess:
		return f.setFlash(data)
	case FeatureControl:
		return f.setControl(data)
	case FeaturePairingInfo:
		if len(data) < 8 {
			return fmt.Errorf("%w: short pairing payload (%d bytes)", ErrProtocol, len(data))
		}
		copy(f.pairedMAC[:], data[2:8])
		return nil
	case FeatureExtSensor:
		if len(data) < 8 {
			return fmt.Errorf("%w: short sensor payload (%d bytes)", ErrProtocol, len(data))
		}
		copy(f.state[:], data[4:8])
		return nil
	default:
		return &UnsupportedReportError{Type: ReportTypeFeature, ID: id}
	}
}

func (f *Features) setFlash(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("%w: short flash payload (%d bytes)", ErrProtocol, len(data))
	}
	switch data[1] {
	case FlashCmdSetAddress:
		if len(data) < 6 {
			return fmt.Errorf("%w: short flash address payload (%d bytes)", ErrProtocol, len(data))
		}
		f.flashBank = data[4] & 0x01
		f.flashAddr = data[5]
		return nil
	case FlashCmdWrite:
		if len(data) < 7 {
			return fmt.Errorf("%w: short flash write payload (%d bytes)", ErrProtocol, len(data))
		}
		payload := data[7:]
		if len(payload) > 16 {
			payload = payload[:16]
		}
		bank := &f.flash[f.flashBank&0x01]
		for i, b := range payload {
			bank[(int(f.flashAddr)+i)&0xFF] = b
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown flash sub-command 0x%02X", ErrProtocol, data[1])
	}
}

func (f *Features) setControl(data []byte) error {
	if len(data) < 2 || data[0] != ControlMagic {
		return fmt.Errorf("%w: malformed control payload", ErrProtocol)
	}
	switch data[1] {
	case ControlDisableStreaming:
		f.state[1] = 0x00
	case ControlEnableStreaming, ControlStartup:
		f.state[1] = 0x01
	case ControlEnableMotion:
		f.state[1] = 0x03
	case ControlRestart, ControlShutdown:
		f.state = [4]byte{}
		f.flashBank = 0
		f.flashAddr = 0
	default:
		return fmt.Errorf("%w: unknown control sub-command 0x%02X", ErrProtocol, data[1])
	}
	return nil
}

// copyBankB copies 16 bytes of bank B starting at addr into dst, wrapping at
// the bank boundary.
func (f *Features) copyBankB(dst []byte, addr int) {
	for i := 0; i < 16 && i < len(dst); i++ {
		dst[i] = f.flash[1][(addr+i)&0xFF]
	}
}
