package skills

// Term is a canonical skill name. CaseSensitive terms collide with common English words.
type Term struct {
	Name          string
	CaseSensitive bool
}

func terms(names ...string) []Term {
	out := make([]Term, len(names))
	for i, n := range names {
		out[i] = Term{Name: n}
	}
	return out
}

func exact(names ...string) []Term {
	out := terms(names...)
	for i := range out {
		out[i].CaseSensitive = true
	}
	return out
}

var programming = append(terms(
	"JavaScript", "TypeScript", "Python", "Java", "Golang", "Rust", "C++", "C#", "Ruby", "PHP",
	"Kotlin", "Scala", "Perl", "Haskell", "Elixir", "Erlang", "Clojure", "Objective-C", "Dart",
	"MATLAB", "Bash", "Shell", "PowerShell", "Groovy", "Lua", "Julia", "Solidity", "COBOL",
	"Fortran", "VB.NET",
), exact("Go", "Swift")...)

var web = append(terms(
	"HTML", "HTML5", "CSS", "CSS3", "Sass", "SCSS", "Tailwind", "Bootstrap", "jQuery", "Redux",
	"GraphQL", "RESTful", "gRPC", "WebSockets", "Webpack", "Vite", "Babel", "JSON", "XML",
	"OAuth", "JWT", "Microservices", "SOAP",
), exact("REST")...)

var databases = terms(
	"SQL", "MySQL", "PostgreSQL", "Postgres", "MongoDB", "Redis", "SQLite", "Oracle", "SQL Server",
	"MariaDB", "Cassandra", "DynamoDB", "Elasticsearch", "Neo4j", "Firebase", "Snowflake",
	"BigQuery", "NoSQL", "CockroachDB", "ClickHouse",
)

var cloud = terms(
	"AWS", "Azure", "GCP", "Google Cloud", "Docker", "Kubernetes", "Terraform", "Ansible",
	"Jenkins", "GitHub Actions", "GitLab CI", "CircleCI", "CI/CD", "Helm", "Serverless", "Lambda",
	"EC2", "S3", "CloudFormation", "OpenShift", "Heroku", "Vercel", "Netlify", "Linux", "Nginx",
	"Kafka", "RabbitMQ", "Prometheus", "Grafana", "Datadog",
)

var frameworks = append(terms(
	"React", "React Native", "Angular", "Vue", "Svelte", "Next.js", "Nuxt", "Node.js",
	"Express.js", "NestJS", "Django", "Flask", "FastAPI", "Spring Boot", "Ruby on Rails",
	"Laravel", "Symfony", ".NET", "ASP.NET", "Flutter", "TensorFlow", "PyTorch", "Pandas", "NumPy",
	"Scikit-learn", "Spark", "Hadoop", "Airflow", "Hibernate", "Electron",
), exact("Spring", "Gin", "Unity")...)

var testingTools = terms(
	"Jest", "Mocha", "Chai", "Cypress", "Selenium", "Playwright", "JUnit", "pytest", "TestNG",
	"Cucumber", "Postman", "Unit Testing", "Integration Testing", "TDD", "BDD", "Karma",
	"Jasmine", "Puppeteer",
)

var methodologies = terms(
	"Agile", "Scrum", "Kanban", "DevOps", "Git", "Jira", "Machine Learning", "Deep Learning",
	"Data Science", "NLP", "Computer Vision", "System Design", "OOP", "Design Patterns", "SRE",
	"Blockchain", "Figma", "UX", "UI",
)

// Vocabulary is the closed list of dictionary terms, in scan order.
var Vocabulary = func() []Term {
	var all []Term
	for _, group := range [][]Term{programming, web, databases, cloud, frameworks, testingTools, methodologies} {
		all = append(all, group...)
	}
	return all
}()
