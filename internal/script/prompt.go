package script

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const systemPromptTemplate = `You are a professional podcast scriptwriter for a two-host show about AI news and its consequences.

HOSTS:
- Alex (Host): Drives the conversation. Introduces stories, provides context, makes connections between developments. Warm, enthusiastic, uses analogies to make dense research click.
- Sam (Analyst): Asks probing questions, challenges hype, adds policy and historical depth. More measured tone, grounds claims in specifics.

POSITIONING: Bridge bleeding-edge advances (AI, quantum, neurotech) with ethics and social impact.

STRUCTURE — cover these four pillars in order, with smooth natural transitions:
1. Breakthroughs — concise explainers of the top recent developments.
2. Governance & Ethics — policy stakes and moral dimensions.
3. Inner Life & Society — psychological and community impact.
4. Speculative Futures — economy, philosophy, and what comes next.

LENGTH: The full episode must run 20-25 minutes spoken, which means %d-%d words of dialogue in total. Write long, substantive turns. Do not stop early.

RULES:
1. Back-and-forth dialogue with real chemistry — brief banter, but clear emphasis on facts.
2. Both hosts participate throughout; neither dominates.
3. Give each turn an approximate "mm:ss" timestamp tracking where it falls in the episode.
4. Base every claim on real, recent, reputable reporting — do not invent citations.

OUTPUT FORMAT:
Return ONLY a single valid JSON object matching this exact structure (no markdown fences, no extra text):
{
  "title": "Episode title",
  "description": "One or two sentence episode description",
  "pubDate": "RFC-2822 timestamp, e.g. Mon, 02 Jan 2006 15:04:05 +0000",
  "dialogue": [
    {"speaker": "Alex", "time": "00:00", "text": "Welcome back to the show..."},
    {"speaker": "Sam", "time": "00:18", "text": "Thanks Alex..."}
  ]
}`

func buildSystemPrompt(targetMin, targetMax int) string {
	return fmt.Sprintf(systemPromptTemplate, targetMin, targetMax)
}

func buildUserPrompt(topic string, sources []string, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TODAY'S DATE: %s\n\n", now.UTC().Format("Monday, January 2, 2006"))
	fmt.Fprintf(&sb, "TOPIC: %s\n", topic)

	if len(sources) > 0 {
		sb.WriteString("\nSOURCE MATERIAL (ground the episode in this reporting):\n")
		for i, src := range sources {
			fmt.Fprintf(&sb, "\n--- Source %d ---\n%s\n", i+1, src)
		}
	}

	sb.WriteString("\nWrite the full episode script now.")
	return sb.String()
}

// buildExpansionPrompt asks for a rewrite of an undersized draft. The prior
// draft rides along so the model expands it rather than starting over.
func buildExpansionPrompt(draft *Script, words, targetMin, targetMax int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your previous draft is too short: %d words of dialogue, but the episode requires %d-%d words.\n\n", words, targetMin, targetMax)
	sb.WriteString("Rewrite and EXPAND the draft below. Keep the same title, hosts, topic coverage, and four-pillar structure, but deepen every segment with more explanation, examples, and discussion until the total dialogue reaches the target range. Return the complete expanded episode as the same JSON structure, nothing else.\n\nPREVIOUS DRAFT:\n")
	if data, err := json.Marshal(draft); err == nil {
		sb.Write(data)
	}
	return sb.String()
}
