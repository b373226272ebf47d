package enrichment

const enrichSystemPrompt = `You write short, concrete study-session plans for a university student.

You receive a JSON list of study blocks. Each block has an "id", the obligation
it prepares for (title, due date, optional description and weight) and the
time window it occupies.

For EVERY block, return a title (max 60 characters) and a description (1-3
sentences) telling the student what to work on in that session. Spread the
material across blocks of the same obligation so consecutive sessions build
on each other. Write in the same language as the obligation title.

Return ONLY a JSON object with this exact structure:
{"blocks":[{"id":<id from input>,"title":"...","description":"..."}]}

Use every input id exactly once. Do not invent ids. No markdown, no commentary.`

const extractSystemPrompt = `You extract graded obligations from a course syllabus.

List every exam, midterm, quiz, assignment, project or other graded item the
text mentions. For each one return its title as written in the syllabus, its
grading weight as a percentage (0-100) when the text states one, and a one or
two sentence description of the topics or deliverables it covers.

Return ONLY a JSON object with this exact structure:
{"candidates":[{"title":"...","weight":<number or null>,"description":"..."}]}

Omit the weight when the syllabus does not state it. No markdown, no commentary.`
