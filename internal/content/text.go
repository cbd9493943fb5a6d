package content

var (
	AboutMe = `I'll keep it short. I'm a self-taught developer from Vienna who started
	programming in 2019 and never stopped. I build web apps end to end, from the
	database up to the last animation on the page.`

	Tagline = `Everyone heard about me but no one knows me.`

	PreviewSkills = []string{"React", "Next.js", "JavaScript", "Ruby", "Golang"}
)

var Skills = []SkillCategory{
	{
		Name: "Frontend",
		Items: []Skill{
			{"HTML5", 95, "🌐"},
			{"CSS3", 90, "🎨"},
			{"JavaScript", 85, "⚡"},
			{"TypeScript", 80, "📘"},
			{"React", 85, "⚛️"},
			{"Next.js", 80, "🔺"},
			{"Tailwind CSS", 90, "💨"},
			{"Framer Motion", 75, "✨"},
			{"Chakra UI", 70, "🔧"},
			{"Shadcn UI", 75, "🎯"},
		},
	},
	{
		Name: "Backend",
		Items: []Skill{
			{"PHP", 90, "🐘"},
			{"C#", 85, "🔷"},
			{"Golang", 80, "🐹"},
			{"Ruby", 75, "💎"},
			{"Python", 70, "🐍"},
			{"Node.js", 80, "💚"},
			{"Express.js", 85, "🚀"},
		},
	},
	{
		Name: "Database & Tools",
		Items: []Skill{
			{"MySQL", 90, "🗄️"},
			{"PostgreSQL", 85, "🐘"},
			{"MongoDB", 75, "🍃"},
			{"Redis", 70, "🔴"},
			{"Git", 95, "📂"},
			{"Docker", 80, "🐳"},
			{"AWS", 75, "☁️"},
			{"Vercel", 90, "▲"},
			{"VS Code", 98, "💻"},
		},
	},
	{
		Name: "Mobile & Others",
		Items: []Skill{
			{"React Native", 70, "📱"},
			{"Flutter", 65, "🦋"},
			{"Unity", 10, "🎮"},
			{"Adobe XD", 20, "📐"},
			{"Linux", 90, "🐧"},
			{"Nginx", 70, "🌐"},
			{"Apache", 75, "🪶"},
		},
	},
}

var Education = []EducationEntry{
	{
		Degree:      "Information Technology",
		School:      "HTL Spengergasse Wien",
		Period:      "2023 - still studying",
		Description: "Databases, Backend & Frontend Development.",
		Courses:     []string{"React, Next.js", "PHP, Javascript", "MySQL"},
		Icon:        "🎓",
	},
	{
		Degree:      "Self-Taught Developer",
		School:      "No School",
		Period:      "2019",
		Description: "Started learning programming on my own.",
		Courses:     []string{"HTML, CSS", "JavaScript", "Python", "C#"},
		Icon:        "💻",
	},
}
