// ABOUTME: Keyword heuristic mapping a user message to suggested follow-up actions
// ABOUTME: Deterministic and order-preserving by category; never model-generated
package engine

import "strings"

type actionRule struct {
	triggers []string
	actions  []string
}

// Rules are evaluated in order; matched categories contribute their actions
// in that order.
var actionRules = []actionRule{
	{
		triggers: []string{"explain", "what is", "define", "how"},
		actions:  []string{"Create flashcards from this explanation"},
	},
	{
		triggers: []string{"study", "learn", "practice"},
		actions:  []string{"Generate a quiz", "Review flashcards"},
	},
	{
		triggers: []string{"difficult", "confused", "don't understand"},
		actions:  []string{"Try a simpler explanation (ELI5)", "See related concepts"},
	},
}

// SuggestActions derives follow-up actions from the user's message. Returns
// nil when no category matches.
func SuggestActions(message string) []string {
	lower := strings.ToLower(message)

	var actions []string
	for _, rule := range actionRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				actions = append(actions, rule.actions...)
				break
			}
		}
	}
	return actions
}
