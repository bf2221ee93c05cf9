package pipeline

import "fmt"

func generationPrompt(schemaText, question string) string {
	return fmt.Sprintf(`You are an expert SQL Server developer.

Task:
- Generate a fully correct SELECT query for the user question.
- Include in SELECT all columns that are:
    - Used in WHERE, JOIN, GROUP BY, ORDER BY
    - Relevant for a human-readable answer
- Always use LEFT JOIN for related tables unless filtering requires INNER JOIN
- Use dbo.TableName syntax
- Do not invent any column names
- Use TOP, ORDER BY, GROUP BY only if required

Database Schema:
%s

User Question:
%s

Return ONLY the raw SQL.`, schemaText, question)
}

func summaryPrompt(question, dataJSON string) string {
	return fmt.Sprintf(`You are a senior HR assistant.

Question:
%s

Database Result:
%s

Rules:
- Give concise, human-readable answers
- If multiple rows, use numbered list
- Include experience where relevant
- Do not invent data`, question, dataJSON)
}
