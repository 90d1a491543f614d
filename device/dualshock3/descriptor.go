package dualshock3

// ReportDescriptor is the DS3 HID report descriptor: a 49-byte input report
// (ID 0x01 plus 48 data bytes), a 48-byte output report, and 48-byte feature
// slots under report IDs 0x01, 0x02, 0xEE and 0xEF.
var ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x04, // Usage (Joystick)
	0xA1, 0x01, // Collection (Application)
	0xA1, 0x02, //   Collection (Logical)
	0x85, 0x01, //     Report ID (1)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x01, //     Report Count (1)
	0x15, 0x00, //     Logical Minimum (0)
	0x26, 0xFF, 0x00, //     Logical Maximum (255)
	0x81, 0x03, //     Input (Const, Var, Abs)
	0x75, 0x01, //     Report Size (1)
	0x95, 0x13, //     Report Count (19)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x35, 0x00, //     Physical Minimum (0)
	0x45, 0x01, //     Physical Maximum (1)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (1)
	0x29, 0x13, //     Usage Maximum (19)
	0x81, 0x02, //     Input (Data, Var, Abs)
	0x75, 0x01, //     Report Size (1)
	0x95, 0x0D, //     Report Count (13)
	0x06, 0x00, 0xFF, //     Usage Page (Vendor)
	0x81, 0x03, //     Input (Const, Var, Abs)
	0x15, 0x00, //     Logical Minimum (0)
	0x26, 0xFF, 0x00, //     Logical Maximum (255)
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x01, //     Usage (Pointer)
	0xA1, 0x00, //     Collection (Physical)
	0x75, 0x08, //       Report Size (8)
	0x95, 0x04, //       Report Count (4)
	0x35, 0x00, //       Physical Minimum (0)
	0x46, 0xFF, 0x00, //       Physical Maximum (255)
	0x09, 0x30, //       Usage (X)
	0x09, 0x31, //       Usage (Y)
	0x09, 0x32, //       Usage (Z)
	0x09, 0x35, //       Usage (Rz)
	0x81, 0x02, //       Input (Data, Var, Abs)
	0xC0, //     End Collection
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x27, //     Report Count (39)
	0x09, 0x01, //     Usage (Pointer)
	0x81, 0x02, //     Input (Data, Var, Abs)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x30, //     Report Count (48)
	0x09, 0x01, //     Usage (Pointer)
	0x91, 0x02, //     Output (Data, Var, Abs)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x30, //     Report Count (48)
	0x09, 0x01, //     Usage (Pointer)
	0xB1, 0x02, //     Feature (Data, Var, Abs)
	0xC0, //   End Collection
	0xA1, 0x02, //   Collection (Logical)
	0x85, 0x02, //     Report ID (2)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x30, //     Report Count (48)
	0x09, 0x01, //     Usage (Pointer)
	0xB1, 0x02, //     Feature (Data, Var, Abs)
	0xC0, //   End Collection
	0xA1, 0x02, //   Collection (Logical)
	0x85, 0xEE, //     Report ID (238)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x30, //     Report Count (48)
	0x09, 0x01, //     Usage (Pointer)
	0xB1, 0x02, //     Feature (Data, Var, Abs)
	0xC0, //   End Collection
	0xA1, 0x02, //   Collection (Logical)
	0x85, 0xEF, //     Report ID (239)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x30, //     Report Count (48)
	0x09, 0x01, //     Usage (Pointer)
	0xB1, 0x02, //     Feature (Data, Var, Abs)
	0xC0, //   End Collection
	0xC0, // End Collection
}
