package compression

import "testing"

func TestAlignerAcceptsTightLayout(t *testing.T) {
	type tight struct {
		A uint64
		B uint32
		C uint32
	}

	report := GetWellAlignedStructReport(tight{})
	if !report.IsWellAligned || report.WastedBytes != 0 {
		t.Errorf("tight struct reported as wasteful: %+v", report)
	}
	if report.StructSize != 16 || report.OptimalSize != 16 {
		t.Errorf("sizes = %+v", report)
	}
}

func TestAlignerFlagsPadding(t *testing.T) {
	type sloppy struct {
		A bool
		B int64
		C bool
	}

	report := GetWellAlignedStructReport(&sloppy{})
	if report.IsWellAligned {
		t.Fatalf("padded struct reported as aligned")
	}
	if report.StructSize != 24 || report.OptimalSize != 16 || report.WastedBytes != 8 {
		t.Errorf("report = %+v", report)
	}
}

func TestAlignerRejectsNonStruct(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("non-struct did not panic")
		}
	}()
	GetWellAlignedStructReport(42)
}
