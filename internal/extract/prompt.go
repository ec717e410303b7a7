package extract

import "strings"

// categoriesLine renders the conventional category set for the prompts.
func categoriesLine(categories []string) string {
	return strings.Join(categories, ", ")
}

// textPrompt instructs the model to normalize one expense description into
// a single JSON object. Multiple expenses in one input are not split.
func textPrompt(categories []string, input string) string {
	var b strings.Builder
	b.WriteString("You are an assistant that parses expense descriptions into structured data.\n\n")
	b.WriteString("Extract the following from the expense text:\n")
	b.WriteString("- \"amount\": the monetary amount, as a number\n")
	b.WriteString("- \"merchant\": the store or business name, or \"Unknown\" if not specified\n")
	b.WriteString("- \"category\": one of: " + categoriesLine(categories) + "\n")
	b.WriteString("- \"description\": a clean description of the expense\n\n")
	b.WriteString("Return ONLY a single valid JSON object, no Markdown, no code fences.\n")
	b.WriteString("Example: {\"amount\": 5.25, \"merchant\": \"Starbucks\", \"category\": \"food\", \"description\": \"Coffee at Starbucks\"}\n\n")
	b.WriteString("Expense text:\n")
	b.WriteString(input)
	return b.String()
}

// receiptPrompt instructs the vision model to extract every line item of a
// receipt image as a JSON array.
func receiptPrompt(categories []string) string {
	var b strings.Builder
	b.WriteString("You are an assistant that analyzes receipt images and extracts expense data.\n\n")
	b.WriteString("Extract ALL expenses from the attached receipt image. For each line item provide:\n")
	b.WriteString("- \"amount\": the monetary amount, as a number\n")
	b.WriteString("- \"merchant\": the store or business name from the receipt\n")
	b.WriteString("- \"category\": one of: " + categoriesLine(categories) + "\n")
	b.WriteString("- \"description\": a clear description of the item or service\n\n")
	b.WriteString("Return ONLY a valid JSON array of objects.\n")
	b.WriteString("Do NOT wrap the response in code fences or Markdown.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")
	b.WriteString("If you cannot read the receipt clearly, return an empty array: []\n")
	return b.String()
}
