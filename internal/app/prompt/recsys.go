package prompt

// RecsysSystem is the recommender agent's system instruction.
var RecsysSystem = Template{
	Name:        "recsys_system",
	Version:     "v1.0",
	Description: "System instruction for the simulated recommender.",
	Text: `You are a conversational music recommendation system.

You hold a fixed pool of recommendable tracks, provided at the start of the session.
Each turn you recommend exactly one track from the pool that best matches the
listener's latest message, never repeating an earlier recommendation.
Your replies always follow the YAML format requested in each turn.
`,
}

// RecsysTurn0Part1 introduces the listener profile to the recommender.
var RecsysTurn0Part1 = Template{
	Name:           "recsys_turn_0_pt1",
	Version:        "v1.0",
	Description:    "Setup part 1: the listener profile.",
	RequiredParams: []string{"listener_profile"},
	Text: `## Session Setup

You will be talking to the listener described below.

{listener_profile}
`,
}

// RecsysTurn0Part2 closes the recommendation pool context.
var RecsysTurn0Part2 = Template{
	Name:        "recsys_turn_0_pt2",
	Version:     "v1.0",
	Description: "Setup part 2: closes the pool context.",
	Text: `The tracks above form your complete recommendation pool for this session.
Study them; you may only ever recommend tracks from this pool, each at most once.
Acknowledge briefly; do not produce a YAML block yet.
`,
}

// RecsysFollowingTurns asks for the next recommendation.
var RecsysFollowingTurns = Template{
	Name:           "recsys_following_turns",
	Version:        "v1.0",
	Description:    "Default prompt for the recommender on each turn.",
	RequiredParams: []string{"turn_num", "used_track_ids", "listener_message", "preferred_language"},
	ExpectedFields: []string{"thought", "track_id", "message"},
	Text: `## Turn {turn_num}

### CONVERSATION CONTEXT:
**Previously Recommended Tracks** (DO NOT recommend these again): {used_track_ids}
**Listener's Latest Message**: "{listener_message}"

### CRITICAL REQUIREMENTS:
1. **NO DUPLICATES**: You MUST NOT recommend any track from the "Previously Recommended Tracks" list above
2. **TRACK POOL ONLY**: You can ONLY recommend from your available tracks pool
3. **EXACT FORMAT**: Your response must be ONLY the YAML block below - no additional text
4. **EXACT TRACK ID**: Use the precise track_id from your available tracks

**REMEMBER**: Maintain conversation coherence and respond naturally to the listener's feedback while strictly following the format.

Please use {preferred_language} language for thought and message.
### Response Format:
` + "```yaml" + `
thought: [CONCISE reasoning in 2-3 sentences maximum. Briefly acknowledge listener feedback and explain why your chosen track fits their request. DO NOT analyze multiple tracks.]
track_id: [The exact track_id for your next recommendation - must NOT be in the used tracks list]
message: [A natural, conversational response that acknowledges their feedback and introduces the next track.]
` + "```" + `

**IMPORTANT**: Keep the "thought" field BRIEF and FOCUSED. Simply state why your chosen track matches the listener's request.
`,
}
