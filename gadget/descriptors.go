package gadget

import (
	"bytes"
	"encoding/binary"
)

// FunctionFS ep0 blob framing.
const (
	descriptorsMagicV2 = 3
	stringsMagic       = 2

	flagHasFSDesc = 1 << 0
	flagHasHSDesc = 1 << 1
)

// USB descriptor constants for the single HID interface.
const (
	descTypeInterface = 0x04
	descTypeEndpoint  = 0x05
	descTypeHID       = 0x21
	descTypeHIDReport = 0x22

	classHID = 0x03

	epAddrIn  = 0x81
	epAddrOut = 0x02

	epAttrInterrupt = 0x03
	epMaxPacket     = 64

	// Polling: 10 frames (10 ms) at full speed; 2^(7-1) microframes (8 ms)
	// at high speed, which only offers power-of-two periods.
	fsInterval = 10
	hsInterval = 7

	langEnglishUS = 0x0409
)

func interfaceDescriptor() []byte {
	return []byte{
		9, descTypeInterface,
		0,        // bInterfaceNumber, renumbered by the kernel
		0,        // bAlternateSetting
		2,        // bNumEndpoints
		classHID, // bInterfaceClass
		0,        // bInterfaceSubClass: none
		0,        // bInterfaceProtocol: none
		1,        // iInterface
	}
}

func hidDescriptor(reportDescLen int) []byte {
	return []byte{
		9, descTypeHID,
		0x11, 0x01, // bcdHID 1.11
		0,                 // bCountryCode
		1,                 // bNumDescriptors
		descTypeHIDReport, // bDescriptorType
		byte(reportDescLen), byte(reportDescLen >> 8),
	}
}

func endpointDescriptor(addr byte, interval byte) []byte {
	return []byte{
		7, descTypeEndpoint,
		addr,
		epAttrInterrupt,
		epMaxPacket & 0xFF, epMaxPacket >> 8,
		interval,
	}
}

// descriptorsBlob builds the FunctionFS v2 descriptors blob written to ep0:
// full- and high-speed sets of interface + HID + two interrupt endpoints,
// differing only in the endpoint polling interval.
func descriptorsBlob(reportDescLen int) []byte {
	speedSet := func(interval byte) []byte {
		var b bytes.Buffer
		b.Write(interfaceDescriptor())
		b.Write(hidDescriptor(reportDescLen))
		b.Write(endpointDescriptor(epAddrIn, interval))
		b.Write(endpointDescriptor(epAddrOut, interval))
		return b.Bytes()
	}
	fs := speedSet(fsInterval)
	hs := speedSet(hsInterval)

	var b bytes.Buffer
	hdr := [5]uint32{
		descriptorsMagicV2,
		0, // total length, patched below
		flagHasFSDesc | flagHasHSDesc,
		4, // fs descriptor count
		4, // hs descriptor count
	}
	for _, v := range hdr {
		_ = binary.Write(&b, binary.LittleEndian, v)
	}
	b.Write(fs)
	b.Write(hs)

	blob := b.Bytes()
	binary.LittleEndian.PutUint32(blob[4:8], uint32(len(blob)))
	return blob
}

// stringsBlob builds the FunctionFS strings blob: one English string table
// holding the interface name.
func stringsBlob(iface string) []byte {
	var b bytes.Buffer
	hdr := [4]uint32{
		stringsMagic,
		0, // total length, patched below
		1, // str_count
		1, // lang_count
	}
	for _, v := range hdr {
		_ = binary.Write(&b, binary.LittleEndian, v)
	}
	_ = binary.Write(&b, binary.LittleEndian, uint16(langEnglishUS))
	b.WriteString(iface)
	b.WriteByte(0)

	blob := b.Bytes()
	binary.LittleEndian.PutUint32(blob[4:8], uint32(len(blob)))
	return blob
}
