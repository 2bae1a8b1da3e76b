package controller

import "testing"

func TestCRC32KnownValue(t *testing.T) {
	// Bare CRC-32 of "123456789" with no seed byte must equal 0xCBF43926.
	crc := uint32(0xFFFFFFFF)
	for _, b := range []byte("123456789") {
		crc = crcTable[byte(crc)^b] ^ (crc >> 8)
	}
	crc ^= 0xFFFFFFFF
	if crc != 0xCBF43926 {
		t.Fatalf("got %#08x, want 0xcbf43926", crc)
	}
}

func TestStampAndValidateRoundTrip(t *testing.T) {
	buf := make([]byte, 10)
	buf[0] = 0x31
	buf[1] = 0x02
	buf[2] = 0xFF
	const crcOffset = 6
	Stamp(SeedOutput, buf, crcOffset)
	if !Validate(SeedOutput, buf[:crcOffset+4]) {
		t.Fatal("expected valid CRC after stamping")
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	buf := make([]byte, 10)
	buf[0] = 0x31
	const crcOffset = 6
	Stamp(SeedOutput, buf, crcOffset)
	buf[1] = 0xFF
	if Validate(SeedOutput, buf[:crcOffset+4]) {
		t.Fatal("expected corruption to invalidate CRC")
	}
}

func TestValidateRejectsShortBuffer(t *testing.T) {
	if Validate(SeedOutput, []byte{1, 2, 3}) {
		t.Fatal("buffers shorter than 4 bytes can never validate")
	}
}

func TestIdentifyKnownControllers(t *testing.T) {
	cases := []struct {
		pid  uint16
		want Model
	}{
		{0x0CE6, DualSense},
		{0x0DF2, DualSenseEdge},
		{0x05C4, DS4V1},
		{0x09CC, DS4V2},
	}
	for _, c := range cases {
		got, ok := Identify(0x054C, c.pid)
		if !ok || got != c.want {
			t.Errorf("Identify(0x054C, %#04x) = %v, %v; want %v, true", c.pid, got, ok, c.want)
		}
	}
}

func TestIdentifyUnknown(t *testing.T) {
	if _, ok := Identify(0x054C, 0x0000); ok {
		t.Error("expected unknown PID to fail")
	}
	if _, ok := Identify(0x0001, 0x0CE6); ok {
		t.Error("expected non-Sony VID to fail")
	}
}

func TestDetectConnection(t *testing.T) {
	usbPath := `\\?\hid#vid_054c&pid_0ce6&mi_03#8&hash&0&0000#{4d1e55b2-f16f-11cf-88cb-001111000030}`
	if got := DetectConnection(usbPath); got != USB {
		t.Errorf("expected USB, got %v", got)
	}
	btPath := `\\?\hid#{00001124-0000-1000-8000-00805f9b34fb}_vid&0002054c_pid&0ce6#8&hash&0&0000#{4d1e55b2-f16f-11cf-88cb-001111000030}`
	if got := DetectConnection(btPath); got != Bluetooth {
		t.Errorf("expected Bluetooth, got %v", got)
	}
}
