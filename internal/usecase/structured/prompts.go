package structured

const generateSystem = "You generate SQL fragments for a read-only candidates table."

const generateTemplate = `The table %q has the columns: %s.

For the question below, output exactly two lines in this format:

SELECT: column1, column2, ...
WHERE: <where clause>

The SELECT line lists only the columns the question asks for.
The WHERE line is a single SQL predicate over the columns above, with string values in single quotes.
Output nothing else.

Question: %q`
