package transcript

import "testing"

func TestParseVTT_Basic(t *testing.T) {
	raw := `WEBVTT
Kind: captions
Language: en

00:00:05.279 --> 00:00:07.030
take your guanciale

00:00:07.030 --> 00:00:09.500
and slice it into strips
`
	segs := ParseVTT(raw)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].ID != "seg-0" || segs[1].ID != "seg-1" {
		t.Errorf("bad IDs: %q, %q", segs[0].ID, segs[1].ID)
	}
	if segs[0].Start != 5.279 {
		t.Errorf("start = %v, want 5.279", segs[0].Start)
	}
	if segs[0].End != 7.030 {
		t.Errorf("end = %v, want 7.030", segs[0].End)
	}
	if segs[0].Text != "take your guanciale" {
		t.Errorf("text = %q", segs[0].Text)
	}
}

func TestParseVTT_StripsMarkup(t *testing.T) {
	raw := `WEBVTT

00:00:01.000 --> 00:00:03.000
<00:00:01.520><c>whisk</c> the <b>eggs</b>
`
	segs := ParseVTT(raw)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Text != "whisk the eggs" {
		t.Errorf("text = %q, want %q", segs[0].Text, "whisk the eggs")
	}
}

func TestParseVTT_SkipsBadBlocks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{
			name: "bad timestamp line ignored entirely",
			raw: "WEBVTT\n\nnot-a-time --> also-not\nleaked text\n\n" +
				"00:00:01.000 --> 00:00:02.000\ngood cue\n",
			want: 1,
		},
		{
			name: "empty cue text skipped",
			raw:  "00:00:01.000 --> 00:00:02.000\n<c></c>\n\n00:00:03.000 --> 00:00:04.000\nkept\n",
			want: 1,
		},
		{
			name: "empty input",
			raw:  "",
			want: 0,
		},
		{
			name: "header only",
			raw:  "WEBVTT\nKind: captions\n",
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := ParseVTT(tt.raw)
			if len(segs) != tt.want {
				t.Errorf("got %d segments, want %d", len(segs), tt.want)
			}
			// IDs stay dense even when blocks are skipped.
			for i, s := range segs {
				want := "seg-" + string(rune('0'+i))
				if s.ID != want {
					t.Errorf("seg %d has ID %q", i, s.ID)
				}
			}
		})
	}
}

func TestParseVTT_MultiLineCue(t *testing.T) {
	raw := "00:00:10.000 --> 00:00:14.000\nfirst line\nsecond   line\n"
	segs := ParseVTT(raw)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Text != "first line second line" {
		t.Errorf("text = %q", segs[0].Text)
	}
}

func TestParseVTT_HourTimestamps(t *testing.T) {
	raw := "01:02:03.500 --> 01:02:05.000\nslow braise\n"
	segs := ParseVTT(raw)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	want := 3723.5
	if segs[0].Start != want {
		t.Errorf("start = %v, want %v", segs[0].Start, want)
	}
}

func TestParseCueTime(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"00:00:05.279", 5.279, false},
		{"00:01:00.000", 60, false},
		{"02:00:00.000", 7200, false},
		{"5.279", 0, true},
		{"aa:bb:cc.ddd", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCueTime(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCueTime(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseCueTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
