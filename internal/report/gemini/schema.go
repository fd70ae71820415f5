package gemini

import "google.golang.org/genai"

func str(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func score(axis string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber, Description: "Score for " + axis + " (1-10)"}
}

func stringList(n int64, description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		MinItems:    genai.Ptr(n),
		MaxItems:    genai.Ptr(n),
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

func list(n int64, description string, item *genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		MinItems:    genai.Ptr(n),
		MaxItems:    genai.Ptr(n),
		Items:       item,
	}
}

// object builds an OBJECT schema whose properties are all required and
// ordered as given. fields alternates name, schema.
func object(description string, fields ...any) *genai.Schema {
	s := &genai.Schema{
		Type:        genai.TypeObject,
		Description: description,
		Properties:  make(map[string]*genai.Schema, len(fields)/2),
	}
	for i := 0; i+1 < len(fields); i += 2 {
		name := fields[i].(string)
		s.Properties[name] = fields[i+1].(*genai.Schema)
		s.Required = append(s.Required, name)
		s.PropertyOrdering = append(s.PropertyOrdering, name)
	}
	return s
}

func named(nameDesc, descriptionDesc string) *genai.Schema {
	return object("", "name", str(nameDesc), "description", str(descriptionDesc))
}

func phrase(tryThis string) *genai.Schema {
	return object("",
		"insteadOf", str("A common phrase a parent might say."),
		"tryThis", str(tryThis),
		"whyItWorks", str("The psychological reason the alternative phrase is more effective."),
	)
}

// ReportSchema is the response schema: an array whose single element is the report.
func ReportSchema() *genai.Schema {
	chart := object("The complete polygon chart data for the 'Personality Blueprint'.",
		"LeadershipAndIndependence", score("Leadership & Independence"),
		"EmpathyAndConnection", score("Empathy & Connection"),
		"CreativityAndExpression", score("Creativity & Expression"),
		"AnalyticalAndStrategicMind", score("Analytical & Strategic Mind"),
		"DiligenceAndReliability", score("Diligence & Reliability"),
		"AdventurousAndAdaptableSpirit", score("Adventurous & Adaptable Spirit"),
	)

	innerTeam := object("",
		"polygonChart", chart,
		"introduction", str("A brief, compassionate introduction to the concept of the child's 'inner team' of archetypes."),
		"teamCaptain", object("",
			"archetype", str("The name of the core archetype based on the lifePath.number (e.g., 'The Little Sage', 'The Powerhouse')"),
			"description", str("A detailed paragraph describing the core traits and motivations of the Team Captain archetype."),
			"whatItLooksLike", str("A paragraph of concrete, observable behaviors parents might see in their child that reflect this archetype."),
			"theWhyBehindIt", str("A paragraph explaining the underlying psychological or numerological reason for the archetype's behavior."),
		),
		"supportingCast", list(2, "Two supporting archetypes derived from the birthday number and challenges.main.", object("",
			"archetype", str("The name of the supporting archetype (e.g., 'The Nurturer', 'The Innovator')"),
			"description", str("A brief description of the supporting archetype's traits and how they complement the Team Captain."),
			"sourceNumber", str("A string explaining where this archetype is derived from, e.g., 'from their Birthday Number 11'."),
		)),
		"coreDynamic", str("A paragraph explaining the interplay between the Team Captain and the supporting cast, including potential conflicts and synergies."),
		"reflectionQuestions", stringList(3, "An array of 3 thought-provoking questions for the parent to reflect on regarding their child's inner team."),
	)

	innerWorld := object("",
		"greatestStrength", named(
			"A unique name for the child's greatest strength, derived from a combination of lifePath.number and birthday number (e.g., 'Practical Intuition')",
			"A detailed paragraph explaining this strength, how it manifests in the child's behavior, and why it is significant."),
		"coreChallenge", named(
			"A clear name for the child's main life lesson (e.g., 'Building True Self-Confidence').",
			"A compassionate explanation of the core challenge, using challenges.main."),
		"hiddenFear", named(
			"A name for the child's hidden fear, inferred from the shadow side of their lifePath.number (e.g., 'Fear of Powerlessness').",
			"A paragraph explaining this fear, how it might manifest in the child's behavior, and why it is important for the parent to understand."),
		"reflectionQuestions", stringList(3, "An array of 3 thought-provoking questions for the parent to reflect on regarding their child's inner world."),
	)

	karmic := object("A special section that ONLY appears if 'karmicDebtOrigin' is present. It provides targeted advice for that specific lesson.",
		"title", nullable(str("e.g., 'A Special Focus: The Lesson of...'")),
		"description", nullable(str("A compassionate and practical guide for helping the child navigate their specific Karmic Debt lesson (13, 14, 16, or 19).")),
	)
	karmic.Nullable = genai.Ptr(true)

	playbook := object("",
		"introduction", str("A brief introduction explaining that this chapter provides actionable strategies."),
		"parentingMindset", named(
			"A descriptive name for the parent's core role, derived from the Life Path (e.g., 'The Empowering Coach' for a LP 1, 'The Nurturing Anchor' for a LP 6).",
			"A paragraph explaining the mindset, how it relates to the child's attributes and why it is important."),
		"learningEnvironmentAndStyle", object("",
			"environmentKeys", object("",
				"name", str("A descriptive name for the recommended learning environment (e.g., 'The Creative Studio')"),
				"points", stringList(4, "An array of 4 bullet points on setting up the child's physical and emotional space, derived from their Life Path and Birthday numbers. Provide atleast 3 specific and actionable examples."),
			),
			"communicationKeys_Potential", list(4, "Provide an array of 4 communication strategies to foster curiosity and build on the child's strengths.",
				phrase("A more effective and empowering alternative phrase that leverages the child's strength and personality.")),
		),
		"guidanceCommunicationAndBoundaries", object("",
			"disciplineAndBoundaries", str("A paragraph explaining the approach to discipline, based on the child's 'main' and 'current' Challenge Numbers. Provide atleast 3 specific and actionable examples."),
			"communicationKeys_Boundaries", list(4, "Provide an array of 4 communication strategies for setting firm, compassionate boundaries, addressing challenges and handling difficult behavior.",
				phrase("A more effective and empowering alternative phrase that addresses the child's coreChallenge, hiddenFear and potential weakness from Life Path.")),
		),
		"friendshipAndCurrentFocus", object("",
			"socialAndFriendshipStyle", str("A paragraph explaining the child's social tendencies based on their core archetype, with nuance added from challenges.current.number. Include how they might be learning to navigate social situations right now. Provide atleast 2 specific and actionable advice on how parents can help them."),
			"navigatingTheYearAhead", str("Specific guidance based on the child's 'personalYear' number. This makes the report immediately relevant and timely. Include atleast 2 example activities for the child."),
		),
		"karmicLessonFocus", karmic,
		"reflectionQuestions", stringList(3, "An array of 3 thought-provoking questions for the parent to reflect on regarding their communication style, the child's social style and education style."),
	)

	passions := object("",
		"recommendedHobbies", list(3, "An array of 3 different tiers of recommended hobbies, activities, or interests that align with the child's Life Path and Birthday numbers.", object("",
			"tier", str("The tier of the recommendation, e.g., 'Tier 1' for primary hobbies."),
			"theme", str("A brief theme or focus for the hobbies, e.g., 'Creative Expression'."),
			"items", stringList(5, "An array of 5 recommended specific hobbies, activities, or interests that align with the child's Life Path and Birthday numbers. E.g., 'Drawing', 'Nature Exploration', 'Music Appreciation'."),
		)),
		"recommendedCareers", list(3, "An array of 3 different tiers of recommended career paths that align with the child's Life Path and Birthday numbers.", object("",
			"tier", str("The tier of the recommendation, e.g., 'Tier 1' for primary career paths."),
			"items", stringList(5, "An array of 5 recommended specific career paths for the future. E.g., 'Creative Director', 'Environmental Scientist', 'Community Organizer'."),
		)),
		"reflectionQuestions", stringList(2, "An array of 2 thought-provoking questions for the parent to reflect on regarding their child's passions and future aspirations."),
	)

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: object("",
			"chapter1_innerTeam", innerTeam,
			"chapter2_innerWorld", innerWorld,
			"chapter3_parentsPlaybook", playbook,
			"chapter4_ignitingPassions", passions,
			"conclusion", str("A final, uplifting paragraph summarizing the child's potential and the parent's role as a guide. It should be compassionate and empowering, leaving the parent with a sense of hope and purpose."),
		),
	}
}

func nullable(s *genai.Schema) *genai.Schema {
	s.Nullable = genai.Ptr(true)
	return s
}
