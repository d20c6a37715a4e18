package truthdare

import (
	"sync"
	"testing"
)

// ══════════════════════════════════════════════
// TextAnalyzer tests
// ══════════════════════════════════════════════

func TestTextAnalyzer_EmptyTextIsNeutral(t *testing.T) {
	a := NewTextAnalyzer(DefaultLexicon())
	for _, text := range []string{"", "   "} {
		signals := a.Analyze(text)
		if signals.Sentiment != 0 {
			t.Fatalf("expected sentiment 0 for %q, got %d", text, signals.Sentiment)
		}
		if len(signals.Tags) != 0 {
			t.Fatalf("expected no tags for %q, got %v", text, signals.Tags)
		}
		if signals.Intent != "" {
			t.Fatalf("expected no intent for %q, got %s", text, signals.Intent)
		}
		if signals.Triggered {
			t.Fatalf("expected triggered=false for %q", text)
		}
	}
}

func TestTextAnalyzer_SentimentExample(t *testing.T) {
	lex := EmptyLexicon()
	lex.SentimentScores = map[string]int{"blij": 4, "enthousiast": 4}
	a := NewTextAnalyzer(lex)

	signals := a.Analyze("Ik ben heel blij en enthousiast")
	// round((4+4)*100 / (2*5)) = 80
	if signals.Sentiment != 80 {
		t.Fatalf("expected sentiment 80, got %d", signals.Sentiment)
	}
}

func TestTextAnalyzer_NegativeSentiment(t *testing.T) {
	a := NewTextAnalyzer(DefaultLexicon())
	signals := a.Analyze("Dat was vreselijk en ik werd er boos van")
	if signals.Sentiment >= 0 {
		t.Fatalf("expected negative sentiment, got %d", signals.Sentiment)
	}
}

func TestTextAnalyzer_RepeatedWordCountsTwice(t *testing.T) {
	lex := EmptyLexicon()
	lex.SentimentScores = map[string]int{"leuk": 3, "vreselijk": -5}
	a := NewTextAnalyzer(lex)

	// (3+3-5)*100 / (3*5) = 6.66... -> 7
	signals := a.Analyze("leuk, leuk, maar ook vreselijk")
	if signals.Sentiment != 7 {
		t.Fatalf("expected sentiment 7, got %d", signals.Sentiment)
	}
}

func TestTextAnalyzer_TagsFromWordsAndPhrases(t *testing.T) {
	lex := EmptyLexicon()
	lex.TagWords = map[string][]string{
		"reizen": {"vakantie", "warme landen"},
		"muziek": {"zingen"},
	}
	a := NewTextAnalyzer(lex)

	signals := a.Analyze("Ik hou van reizen naar warme landen")
	if len(signals.Tags) != 1 || signals.Tags[0] != "reizen" {
		t.Fatalf("expected tags [reizen], got %v", signals.Tags)
	}
}

func TestTextAnalyzer_IntentDeclarationOrderWins(t *testing.T) {
	lex := EmptyLexicon()
	lex.IntentPatterns = []IntentPattern{
		{Intent: "preference", Patterns: []string{"ik vind"}},
		{Intent: "wish", Patterns: []string{"ik wil"}},
	}
	a := NewTextAnalyzer(lex)

	signals := a.Analyze("ik vind dat leuk en ik wil meer")
	if signals.Intent != "preference" {
		t.Fatalf("expected first declared intent to win, got %s", signals.Intent)
	}
}

func TestTextAnalyzer_NoIntentMatch(t *testing.T) {
	a := NewTextAnalyzer(DefaultLexicon())
	if got := a.Analyze("gewoon een zin zonder patronen").Intent; got != "" {
		t.Fatalf("expected empty intent, got %s", got)
	}
}

func TestTextAnalyzer_TriggerWord(t *testing.T) {
	a := NewTextAnalyzer(DefaultLexicon())
	if !a.Analyze("dat raakt aan een oud trauma").Triggered {
		t.Fatal("expected trigger word to fire")
	}
}

func TestTextAnalyzer_TriggerPattern(t *testing.T) {
	a := NewTextAnalyzer(DefaultLexicon())
	if !a.Analyze("stop hiermee alsjeblieft").Triggered {
		t.Fatal("expected trigger pattern to fire")
	}
}

func TestTextAnalyzer_TriggerIndependentOfSentiment(t *testing.T) {
	a := NewTextAnalyzer(DefaultLexicon())
	signals := a.Analyze("ik ben heel blij maar mijn opa is overleden")
	if !signals.Triggered {
		t.Fatal("expected trigger despite positive words")
	}
	if signals.Sentiment <= 0 {
		t.Fatalf("sentiment should be scored independently, got %d", signals.Sentiment)
	}
}

func TestTextAnalyzer_ConcurrentAnalyze(t *testing.T) {
	a := NewTextAnalyzer(DefaultLexicon())
	texts := []string{
		"Ik ben heel blij en enthousiast",
		"Dat was vreselijk",
		"Ik hou van reizen",
		"",
	}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a.Analyze(texts[i%len(texts)])
		}(i)
	}
	wg.Wait()
}

func TestTextAnalyzer_NilLexicon(t *testing.T) {
	a := NewTextAnalyzer(nil)
	signals := a.Analyze("wat dan ook")
	if signals.Sentiment != 0 || signals.Triggered || len(signals.Tags) != 0 {
		t.Fatalf("nil lexicon should behave as empty, got %+v", signals)
	}
}
