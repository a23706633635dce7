package text

import (
	"bytes"
	"testing"
)

func TestWriteLeftAligned(t *testing.T) {
	var cc ColumnCollector
	cc.AddFields("/dev/nvme0n1", "512.1 GB", "NVMe SSD")
	cc.AddField("/dev/sdb")
	cc.AddField("16.0 GB")
	cc.CompleteLine()
	cc.AddFields("/dev/vda", "8.6 GB", "Virtual Disk", "mounted")
	buffer := &bytes.Buffer{}
	if err := cc.WriteLeftAligned(buffer); err != nil {
		t.Fatal(err)
	}
	expected := "/dev/nvme0n1 512.1 GB NVMe SSD\n" +
		"/dev/sdb     16.0 GB\n" +
		"/dev/vda     8.6 GB   Virtual Disk mounted\n"
	if buffer.String() != expected {
		t.Errorf("expected:\n%sgot:\n%s", expected, buffer.String())
	}
	buffer.Reset()
	if err := cc.WriteLeftAligned(buffer); err != nil {
		t.Fatal(err)
	}
	if buffer.Len() != 0 {
		t.Errorf("collected lines not cleared: %s", buffer.String())
	}
}

func TestCompleteEmptyLine(t *testing.T) {
	var cc ColumnCollector
	cc.CompleteLine()
	buffer := &bytes.Buffer{}
	if err := cc.WriteLeftAligned(buffer); err != nil {
		t.Fatal(err)
	}
	if buffer.Len() != 0 {
		t.Errorf("empty line written: %q", buffer.String())
	}
}
