package practice

func referenceTables() map[Mode][]Entry {
	return map[Mode][]Entry{
		ModeVowels: {
			{Prompt: "What is 'अ'?", Answer: "a"},
			{Prompt: "What is 'आ'?", Answer: "ā"},
			{Prompt: "What is 'इ'?", Answer: "i"},
			{Prompt: "What is 'ई'?", Answer: "ī"},
			{Prompt: "What is 'उ'?", Answer: "u"},
			{Prompt: "What is 'ऊ'?", Answer: "ū"},
			{Prompt: "What is 'ऋ'?", Answer: "ṛ"},
			{Prompt: "What is 'ए'?", Answer: "e"},
			{Prompt: "What is 'ऐ'?", Answer: "ai"},
			{Prompt: "What is 'ओ'?", Answer: "o"},
			{Prompt: "What is 'औ'?", Answer: "au"},
		},
		ModeNumbers: {
			{Prompt: "What is 'एकम्'?", Answer: "one"},
			{Prompt: "What is 'द्वे'?", Answer: "two"},
			{Prompt: "What is 'त्रीणि'?", Answer: "three"},
			{Prompt: "What is 'चत्वारि'?", Answer: "four"},
			{Prompt: "What is 'पञ्च'?", Answer: "five"},
			{Prompt: "What is 'षट्'?", Answer: "six"},
			{Prompt: "What is 'सप्त'?", Answer: "seven"},
			{Prompt: "What is 'अष्ट'?", Answer: "eight"},
			{Prompt: "What is 'नव'?", Answer: "nine"},
			{Prompt: "What is 'दश'?", Answer: "ten"},
		},
	}
}
