package dualshock3

// Factory contents of the two 256-byte flash banks. The host driver reads
// these through feature 0xF1 and through the windows exposed by features
// 0x01, 0xF2, 0xF5, 0xF7 and 0xF8, and rejects controllers whose calibration
// blobs deviate from a sane factory image.
//
// Bank A: controller ID header [0x00..0x04), configuration [0x08..0x20),
// stick calibration [0x20..0x30), extended calibration [0x30..0x60),
// firmware high byte and stick metadata [0x60..0x6F), deadzone/gain
// [0x70..0xA0), rumble LUT start [0xB0..0x100). The firmware low byte lives
// at A[3], the high byte at A[0x60].
var FactoryBankA = [FlashBankSize]byte{
	/* 0x00 */ 0x00, 0x04, 0x01, 0x87, 0x00, 0x00, 0x00, 0x00, 0x09, 0x10, 0x20, 0x0C, 0x00, 0x50, 0x02, 0x00,
	/* 0x10 */ 0x01, 0x2C, 0x01, 0x2C, 0x00, 0x0A, 0x00, 0x0A, 0x04, 0x00, 0x05, 0x28, 0x05, 0x28, 0x00, 0x00,
	/* 0x20 */ 0x01, 0xED, 0x01, 0xF7, 0x01, 0xDE, 0x01, 0xF8, 0x00, 0x01, 0x01, 0x60, 0x80, 0x20, 0x15, 0x01,
	/* 0x30 */ 0x02, 0x1C, 0x02, 0x06, 0x01, 0xF8, 0x02, 0x11, 0x00, 0xCA, 0x00, 0xCD, 0x00, 0xC4, 0x00, 0xD0,
	/* 0x40 */ 0x02, 0x37, 0x02, 0x1F, 0x02, 0x03, 0x02, 0x29, 0x01, 0xC2, 0x01, 0xC8, 0x01, 0xBB, 0x01, 0xC6,
	/* 0x50 */ 0x00, 0x68, 0x00, 0x68, 0x00, 0x68, 0x00, 0x68, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	/* 0x60 */ 0x01, 0x00, 0x00, 0x0A, 0x10, 0x0A, 0x10, 0x00, 0x64, 0x00, 0x64, 0x02, 0x01, 0x90, 0x00, 0x00,
	/* 0x70 */ 0x0C, 0x0C, 0x0C, 0x0C, 0x20, 0x20, 0x20, 0x20, 0x04, 0x04, 0x04, 0x04, 0x7F, 0x7F, 0x7F, 0x7F,
	/* 0x80 */ 0x40, 0x40, 0x40, 0x40, 0x02, 0x02, 0x02, 0x02, 0x10, 0x10, 0x10, 0x10, 0x00, 0x00, 0x00, 0x00,
	/* 0x90 */ 0x28, 0x28, 0x28, 0x28, 0x03, 0xE8, 0x03, 0xE8, 0x01, 0xF4, 0x01, 0xF4, 0x00, 0xC8, 0x00, 0xC8,
	/* 0xA0 */ 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	/* 0xB0 */ 0x00, 0x02, 0x04, 0x06, 0x08, 0x0A, 0x0C, 0x0E, 0x10, 0x12, 0x14, 0x16, 0x18, 0x1A, 0x1C, 0x1E,
	/* 0xC0 */ 0x20, 0x22, 0x24, 0x26, 0x28, 0x2A, 0x2C, 0x2E, 0x30, 0x32, 0x34, 0x36, 0x38, 0x3A, 0x3C, 0x3E,
	/* 0xD0 */ 0x40, 0x43, 0x46, 0x49, 0x4C, 0x4F, 0x52, 0x55, 0x58, 0x5B, 0x5E, 0x61, 0x64, 0x67, 0x6A, 0x6D,
	/* 0xE0 */ 0x70, 0x73, 0x76, 0x79, 0x7C, 0x7F, 0x82, 0x85, 0x88, 0x8B, 0x8E, 0x91, 0x94, 0x97, 0x9A, 0x9D,
	/* 0xF0 */ 0xA0, 0xA4, 0xA8, 0xAC, 0xB0, 0xB4, 0xB8, 0xBC, 0xC0, 0xC4, 0xC8, 0xCC, 0xD0, 0xD4, 0xD8, 0xDC,
}

// Bank B: rumble LUT continuation [0x00..0x70), duplicate controller header
// [0x70..0x80), motion calibration [0x90..0xB0), footer [0xF0..0x100).
var FactoryBankB = [FlashBankSize]byte{
	/* 0x00 */ 0xE0, 0xE1, 0xE2, 0xE3, 0xE4, 0xE5, 0xE6, 0xE7, 0xE8, 0xE9, 0xEA, 0xEB, 0xEC, 0xED, 0xEE, 0xEF,
	/* 0x10 */ 0xF0, 0xF1, 0xF2, 0xF3, 0xF4, 0xF5, 0xF6, 0xF7, 0xF8, 0xF9, 0xFA, 0xFB, 0xFC, 0xFD, 0xFE, 0xFF,
	/* 0x20 */ 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38, 0x40, 0x48, 0x50, 0x58, 0x60, 0x68, 0x70, 0x78,
	/* 0x30 */ 0x80, 0x88, 0x90, 0x98, 0xA0, 0xA8, 0xB0, 0xB8, 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8,
	/* 0x40 */ 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	/* 0x50 */ 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32, 0x32,
	/* 0x60 */ 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64, 0x64,
	/* 0x70 */ 0x00, 0x04, 0x01, 0x87, 0x00, 0x00, 0x00, 0x00, 0x09, 0x10, 0x20, 0x0C, 0x00, 0x50, 0x02, 0x00,
	/* 0x80 */ 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	/* 0x90 */ 0x02, 0x00, 0x02, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01, 0xFF, 0x01, 0xFF, 0x01, 0xFF, 0x02, 0x00,
	/* 0xA0 */ 0x00, 0x02, 0x00, 0x02, 0x00, 0x02, 0x00, 0x00, 0x00, 0x80, 0x00, 0x80, 0x00, 0x80, 0x00, 0x00,
	/* 0xB0 */ 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	/* 0xC0 */ 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	/* 0xD0 */ 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	/* 0xE0 */ 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	/* 0xF0 */ 0x5A, 0xA5, 0x5A, 0xA5, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x50, 0xC3, 0x5A,
}

const FlashBankSize = 256
