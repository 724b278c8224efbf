package prompt

// GoalQueryPart1 introduces the goal inference task.
var GoalQueryPart1 = Template{
	Name:           "conversation_goal_query_pt1",
	Version:        "v1.0",
	Description:    "Instruction preceding the recommendation pool tracks.",
	RequiredParams: []string{"number_of_conversation_goals"},
	Text: `# Conversation Goal Inference (Part 1)
You will be given a set of tracks with metadata and artifacts. From the {number_of_conversation_goals} allowed conversation goals presented afterwards, you will select the one best suited to these tracks.
`,
}

// GoalQueryPart2 asks the model to choose one goal and answer in YAML.
var GoalQueryPart2 = Template{
	Name:           "conversation_goal_query_pt2",
	Version:        "v1.0",
	Description:    "Instruction to choose and output a single goal in YAML.",
	RequiredParams: []string{"conversation_goal_templates"},
	ExpectedFields: []string{"category_code", "specificity_code"},
	Text: `# Conversation Goal Inference (Part 2)

Here are the allowed conversation goals:
{conversation_goal_templates}

Select the single goal that fits the tracks best and output ONLY this YAML block:

` + "```yaml" + `
category_code: [the category code of the selected goal]
specificity_code: [the specificity code of the selected goal]
` + "```" + `
`,
}
