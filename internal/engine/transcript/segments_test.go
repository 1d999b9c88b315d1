package transcript

import "testing"

func TestFromCues(t *testing.T) {
	cues := []Cue{
		{StartTime: 0, EndTime: 2.5, Text: " hello "},
		{StartTime: 2.5, EndTime: 5, Text: "world"},
	}
	segs := FromCues(cues)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].ID != "seg-0" || segs[1].ID != "seg-1" {
		t.Errorf("bad IDs: %q, %q", segs[0].ID, segs[1].ID)
	}
	if segs[0].Text != "hello" {
		t.Errorf("text not trimmed: %q", segs[0].Text)
	}
	if segs[1].Start != 2.5 || segs[1].End != 5 {
		t.Errorf("times not carried over: %+v", segs[1])
	}
}

func TestResolve_PrefersPreSegmented(t *testing.T) {
	cached := &Cached{
		Segments: []Cue{{StartTime: 1, EndTime: 2, Text: "from cues"}},
	}
	rawVTT := "00:00:09.000 --> 00:00:10.000\nfrom vtt\n"

	segs := Resolve(cached, rawVTT)
	if len(segs) != 1 || segs[0].Text != "from cues" {
		t.Errorf("expected pre-segmented cues to win, got %+v", segs)
	}
}

func TestResolve_FallsBackToVTT(t *testing.T) {
	rawVTT := "00:00:09.000 --> 00:00:10.000\nfrom vtt\n"

	segs := Resolve(nil, rawVTT)
	if len(segs) != 1 || segs[0].Text != "from vtt" {
		t.Errorf("expected VTT fallback, got %+v", segs)
	}

	segs = Resolve(&Cached{PlainText: "text only"}, rawVTT)
	if len(segs) != 1 || segs[0].Text != "from vtt" {
		t.Errorf("plain-text-only artifact should fall back to VTT, got %+v", segs)
	}
}

func TestResolve_NothingAvailable(t *testing.T) {
	if segs := Resolve(nil, ""); segs != nil {
		t.Errorf("expected nil, got %+v", segs)
	}
}

func TestTimestampedText(t *testing.T) {
	segs := []Segment{
		{Start: 5, Text: "chop the onions"},
		{Start: 65, Text: ""},
		{Start: 125, Text: "into the pan"},
		{Start: 3725, Text: "rest the dough"},
	}
	got := TimestampedText(segs)
	want := "[00:05] chop the onions\n[02:05] into the pan\n[1:02:05] rest the dough\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPlainText(t *testing.T) {
	segs := []Segment{
		{Text: "one"},
		{Text: ""},
		{Text: "two"},
	}
	if got := PlainText(segs); got != "one two" {
		t.Errorf("got %q", got)
	}
}
