package truthdare

import (
	"math/rand"
	"testing"
)

// ══════════════════════════════════════════════
// SafetyFilter tests
// ══════════════════════════════════════════════

func newTestSafety() *SafetyFilter {
	return NewSafetyFilter(NewTextAnalyzer(DefaultLexicon()), SafetyConfig{
		Rand: rand.New(rand.NewSource(1)),
	})
}

func testContext(heat, maxDepth int) SelectionContext {
	return SelectionContext{
		PlayerID: "p1",
		Mode:     ModeCasual,
		Heat:     heat,
		MaxDepth: maxDepth,
		Bias:     NewBiasProfile(),
		Mood:     MoodCalm,
	}
}

func TestSafetyFilter_ExplicitTagAtLowHeat(t *testing.T) {
	s := newTestSafety()
	q := Question{
		ID:         NewQuestionID(),
		Kind:       KindTruth,
		Category:   "party",
		TargetMode: TargetSingle,
		Tags:       []string{"explicit"},
		Text:       "Een gewaagde vraag.",
	}

	d := s.Check(q, testContext(10, 3))
	if d.OK {
		t.Fatal("explicit question must be rejected at heat 10")
	}
	if d.MildAlternative == nil {
		t.Fatal("rejection must supply a mild alternative")
	}
	alt := d.MildAlternative
	if len(alt.Tags) != 2 || alt.Tags[0] != "casual" || alt.Tags[1] != "safe" {
		t.Fatalf("expected tags [casual safe], got %v", alt.Tags)
	}
	if alt.Kind != KindTruth {
		t.Fatalf("mild alternative must keep the kind, got %s", alt.Kind)
	}
}

func TestSafetyFilter_BucketsShrinkWithHeat(t *testing.T) {
	s := newTestSafety()
	alcohol := Question{ID: NewQuestionID(), Kind: KindDare, Tags: []string{"alcohol"}, Text: "Neem een slok."}

	if d := s.Check(alcohol, testContext(0, 3)); d.OK {
		t.Fatal("alcohol tag must be disallowed at heat 0")
	}
	if d := s.Check(alcohol, testContext(35, 3)); !d.OK {
		t.Fatal("alcohol tag is allowed from the heat-30 bucket up")
	}

	explicit := Question{ID: NewQuestionID(), Kind: KindDare, Tags: []string{"explicit"}, Text: "Een gewaagde opdracht."}
	if d := s.Check(explicit, testContext(89, 3)); d.OK {
		t.Fatal("explicit tag must still be disallowed below heat 90")
	}
	if d := s.Check(explicit, testContext(95, 3)); !d.OK {
		t.Fatal("no tag-based restriction from heat 90 up")
	}
}

func TestSafetyFilter_TriggerInQuestionText(t *testing.T) {
	s := newTestSafety()
	q := Question{ID: NewQuestionID(), Kind: KindTruth, Tags: []string{"casual"},
		Text: "Vertel over een trauma uit je jeugd."}

	if d := s.Check(q, testContext(95, 5)); d.OK {
		t.Fatal("trigger words in question text must reject regardless of heat")
	}
}

func TestSafetyFilter_DepthCap(t *testing.T) {
	s := newTestSafety()
	q := Question{ID: NewQuestionID(), Kind: KindTruth, Tags: []string{"deep"},
		DepthLevel: 4, Text: "Waar denk je 's nachts aan?"}

	if d := s.Check(q, testContext(50, 3)); d.OK {
		t.Fatal("depth 4 must be rejected at maxDepth 3")
	}
	if d := s.Check(q, testContext(50, 4)); !d.OK {
		t.Fatal("depth 4 is fine at maxDepth 4")
	}
}

func TestSafetyFilter_MildAlternativeForDare(t *testing.T) {
	s := newTestSafety()
	q := Question{ID: NewQuestionID(), Kind: KindDare, TargetMode: TargetGroup,
		Tags: []string{"explicit"}, Text: "Een gewaagde opdracht."}

	d := s.Check(q, testContext(0, 1))
	if d.OK || d.MildAlternative == nil {
		t.Fatal("expected rejection with alternative")
	}
	if d.MildAlternative.Kind != KindDare {
		t.Fatalf("alternative must stay a dare, got %s", d.MildAlternative.Kind)
	}
	if d.MildAlternative.TargetMode != TargetGroup {
		t.Fatalf("alternative must keep the target mode, got %s", d.MildAlternative.TargetMode)
	}
	if d.MildAlternative.DepthLevel != 0 {
		t.Fatalf("dare alternative has no depth, got %d", d.MildAlternative.DepthLevel)
	}
}

func TestSafetyFilter_MildAlternativesGetFreshIDs(t *testing.T) {
	s := newTestSafety()
	q := Question{ID: NewQuestionID(), Kind: KindTruth, Tags: []string{"explicit"}, Text: "x"}

	a := s.Check(q, testContext(0, 1)).MildAlternative
	b := s.Check(q, testContext(0, 1)).MildAlternative
	if a.ID == b.ID {
		t.Fatal("each synthesized alternative must carry a fresh id")
	}
}

func TestSafetyFilter_CheckAnswer(t *testing.T) {
	s := newTestSafety()

	if !s.CheckAnswer("gewoon een leuk verhaal") {
		t.Fatal("harmless answer must pass")
	}
	if s.CheckAnswer("ik wil hier niet over praten") {
		t.Fatal("trigger pattern must fail the answer")
	}
	if s.CheckAnswer("vreselijk vreselijk haat haat") {
		t.Fatal("extremely negative answer must fail")
	}
}

func TestSafetyFilter_ClampsContext(t *testing.T) {
	s := newTestSafety()
	q := Question{ID: NewQuestionID(), Kind: KindTruth, Tags: []string{"explicit"}, Text: "x"}

	// heat 150 clamps to 100: no tag restriction applies
	if d := s.Check(q, testContext(150, 3)); !d.OK {
		t.Fatal("heat above range must clamp to 100")
	}
	// heat -5 clamps to 0: strictest bucket
	if d := s.Check(q, testContext(-5, 3)); d.OK {
		t.Fatal("heat below range must clamp to 0")
	}
}
