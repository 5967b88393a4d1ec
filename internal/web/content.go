package web

import (
	"strings"

	"github.com/Zachkp/portfolio/internal/model"
)

// Built-in copy shown when the database is empty or unreachable. Database
// rows always come first; these only fill the gaps.
var (
	AboutHeading = "Securing Systems Through Knowledge, Practice, and Discipline"

	AboutMe = `I am a cybersecurity student focused on practical learning: designing secure networks, testing
assumptions in lab environments, and extracting lessons from incidents. I combine hands-on
exercises (CTFs, packet-tracer simulations) with clear, evidence-driven writeups and reproducible
lab work.

My areas of interest include web application security, digital forensics, and defensive network
architecture. I enjoy translating technical findings into actionable recommendations for both
technical and non-technical stakeholders.`

	HeroRoles = []string{
		"Cybersecurity Student",
		"Network & Web Security Enthusiast",
		"Penetration Testing Learner",
		"Digital Forensics Analyst (Academic)",
		"CTF Participant",
	}
)

type projectCard struct {
	Slug     string
	Title    string
	Category string
	Summary  string
	Tags     []string
	Locked   bool
	Featured bool
	Content  string
}

type postCard struct {
	Slug      string
	Reference string
	Title     string
	Excerpt   string
	Severity  string
	Tags      []string
	Minutes   int
	Content   string
}

type certCard struct {
	Name      string
	Org       string
	Year      string
	VerifyURL string
}

type serviceCard struct {
	Name    string
	Bullets []string
}

type skillItem struct {
	Name  string
	Level int
}

type skillGroup struct {
	Group string
	Items []skillItem
}

var builtinProjects = []projectCard{
	{
		Title:    "Secure Enterprise Network Design",
		Category: "Network Security",
		Summary:  "HQ + branch topology with VLANs, routing, redundancy, ACLs, monitoring.",
		Tags:     []string{"VLAN", "OSPF", "ACL", "HSRP"},
	},
	{
		Title:    "Web Application Penetration Testing Report",
		Category: "Web Security",
		Summary:  "Auth & business-logic findings with OWASP-aligned methodology and documentation.",
		Tags:     []string{"OWASP", "JWT", "Burp", "Reporting"},
	},
	{
		Title:    "Digital Forensics Investigation",
		Category: "Forensics",
		Summary:  "Phishing-driven malware chain reconstruction with timeline and evidence handling.",
		Tags:     []string{"Artifacts", "Timeline", "Chain of Custody"},
	},
	{
		Title:    "CTF & Security Labs",
		Category: "Offensive Security (Learning)",
		Summary:  "Enumeration and exploitation practice with writeups and lessons learned.",
		Tags:     []string{"CTF", "Enumeration", "Exploitation"},
	},
	{
		Title:    "Packet Tracer Security Simulations",
		Category: "Networking (Academic)",
		Summary:  "Segmentation, NAT/DHCP/DNS, logging, and hardening scenarios.",
		Tags:     []string{"Packet Tracer", "NAT", "Syslog"},
	},
	{
		Title:    "Secure API Concepts Study",
		Category: "Web Security",
		Summary:  "Analysis of session security, input validation, and token-based protections.",
		Tags:     []string{"AuthZ", "Sessions", "Validation"},
	},
}

var builtinPosts = []postCard{
	{
		Slug: "rep-001-jwt-pitfalls", Reference: "REP-001", Severity: "Medium", Minutes: 6,
		Title:   "JWT pitfalls: where analysis often misses",
		Tags:    []string{"JWT", "Auth"},
		Content: "Notes on common JWT pitfalls: algorithm confusion, weak signing keys, missing audience/issuer validation, token storage issues, and authorization checks that rely only on token claims.",
	},
	{
		Slug: "rep-002-owasp-lab-notes", Reference: "REP-002", Severity: "High", Minutes: 8,
		Title:   "OWASP Top 10 in practice: lab notes",
		Tags:    []string{"OWASP", "Web"},
		Content: "Lab-oriented notes mapping typical findings to OWASP Top 10 categories, with a focus on how to prove impact and how to recommend mitigations clearly.",
	},
	{
		Slug: "rep-003-packet-tracer-hardening", Reference: "REP-003", Severity: "Low", Minutes: 5,
		Title:   "Packet Tracer hardening checklist",
		Tags:    []string{"Network", "Labs"},
		Content: "A practical checklist for baseline hardening in simulations: segmentation, ACLs, management plane controls, logging, and least-privilege routing.",
	},
	{
		Slug: "rep-004-forensics-timeline-basics", Reference: "REP-004", Severity: "Medium", Minutes: 7,
		Title:   "Forensics timeline reconstruction basics",
		Tags:    []string{"Forensics"},
		Content: "A beginner-friendly approach to timelines: which artifacts matter, ordering events reliably, and how to avoid over-interpreting sparse evidence.",
	},
	{
		Slug: "rep-005-auth-logic-flaws", Reference: "REP-005", Severity: "High", Minutes: 9,
		Title:   "Authentication logic flaws: patterns to watch",
		Tags:    []string{"Auth", "Logic"},
		Content: "Common auth logic issues: inconsistent state transitions, missing verification steps, flawed password reset flows, and authorization bypass patterns.",
	},
	{
		Slug: "rep-006-recon-workflows", Reference: "REP-006", Severity: "Medium", Minutes: 6,
		Title:   "Recon workflows: from Nmap to hypotheses",
		Tags:    []string{"Nmap", "Recon"},
		Content: "A structured recon workflow: scan, validate, enumerate, form hypotheses, then test carefully, keeping notes for repeatability and reporting.",
	},
}

var builtinCerts = []certCard{
	{Name: "Academic Coursework in Cybersecurity", Org: "University", Year: "2024"},
	{Name: "Digital Forensics Practical Assessment", Org: "Academic", Year: "2024"},
	{Name: "Web Security & Pentesting Labs", Org: "Academic", Year: "2023–2025"},
	{Name: "IEEE × Logpoint CTF", Org: "Participant", Year: "2024"},
	{Name: "University Security Competitions", Org: "Participant", Year: "2023–2025"},
}

var builtinServices = []serviceCard{
	{
		Name:    "Network Security Design (Academic & Lab)",
		Bullets: []string{"Segmentation (VLANs)", "Routing & redundancy", "ACLs and policy controls", "Monitoring concepts"},
	},
	{
		Name:    "Web Application Security Testing (Learning)",
		Bullets: []string{"OWASP-aligned workflow", "Auth/session analysis", "Logic flaw modeling", "Clear reporting"},
	},
	{
		Name:    "Security Research & Documentation",
		Bullets: []string{"Writeups & incident notes", "Threat modeling basics", "Evidence-driven reasoning", "Readable diagrams"},
	},
	{
		Name:    "Cybersecurity Labs & Simulations",
		Bullets: []string{"Packet Tracer scenarios", "CTF practice", "Forensics exercises", "Post-lab reflections"},
	},
}

var builtinSkills = []skillGroup{
	{Group: "Security Tools", Items: []skillItem{
		{"Wireshark", 90}, {"Nmap", 88}, {"Burp Suite (Lab)", 82},
	}},
	{Group: "Networking & Infrastructure", Items: []skillItem{
		{"VLANs & Inter-VLAN Routing", 88}, {"OSPF / EIGRP (Academic)", 84}, {"ACLs & NAT", 86},
	}},
	{Group: "Web & App Security", Items: []skillItem{
		{"OWASP Top 10", 86}, {"AuthN/AuthZ", 84}, {"JWT Security (Analysis)", 80},
	}},
	{Group: "Digital Forensics", Items: []skillItem{
		{"Timeline Reconstruction", 82}, {"Artifact & Log Analysis", 84}, {"Phishing Attack Analysis", 80},
	}},
}

func init() {
	for i := range builtinProjects {
		builtinProjects[i].Slug = model.Slugify(builtinProjects[i].Title)
	}
	for i := range builtinPosts {
		builtinPosts[i].Excerpt = builtinPosts[i].Content
	}
}

func projectCardOf(p *model.Project) projectCard {
	return projectCard{
		Slug:     p.Slug,
		Title:    p.Title,
		Category: model.Deref(p.Category),
		Summary:  model.Deref(p.Summary),
		Tags:     p.TechStack,
		Locked:   p.Protected(),
		Featured: p.Featured,
		Content:  model.Deref(p.ContentMD),
	}
}

func postCardOf(p *model.BlogPost) postCard {
	card := postCard{
		Slug:      p.Slug,
		Reference: p.Reference(),
		Title:     p.Title,
		Excerpt:   model.Deref(p.Excerpt),
		Severity:  p.Severity.Label(),
		Tags:      p.Tags,
		Content:   model.Deref(p.ContentMD),
	}
	if p.ReadingTimeMinutes != nil {
		card.Minutes = *p.ReadingTimeMinutes
	}
	return card
}

func certCardOf(c *model.Certification) certCard {
	return certCard{
		Name:      c.Name,
		Org:       model.Deref(c.IssuingOrg),
		Year:      c.Year(),
		VerifyURL: model.Deref(c.VerifyURL),
	}
}

// merge appends the fallback items whose key is not already present, then
// caps the result at limit (0 means no cap).
func merge[T any](items, fallback []T, key func(T) string, limit int) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items)+len(fallback))
	for _, it := range items {
		k := strings.ToLower(key(it))
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	for _, it := range fallback {
		if k := strings.ToLower(key(it)); !seen[k] {
			seen[k] = true
			out = append(out, it)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// groupSkills groups skills by category in first-seen order, then merges
// in the built-in groups without repeating a skill name.
func groupSkills(skills []model.Skill) []skillGroup {
	var order []string
	groups := map[string][]skillItem{}
	add := func(group string, it skillItem) {
		items, ok := groups[group]
		if !ok {
			order = append(order, group)
		}
		for _, existing := range items {
			if strings.EqualFold(existing.Name, it.Name) {
				return
			}
		}
		groups[group] = append(items, it)
	}
	for i := range skills {
		add(skills[i].Group(), skillItem{Name: skills[i].Name, Level: skills[i].Proficiency})
	}
	for _, g := range builtinSkills {
		for _, it := range g.Items {
			add(g.Group, it)
		}
	}

	out := make([]skillGroup, 0, len(order))
	for _, g := range order {
		out = append(out, skillGroup{Group: g, Items: groups[g]})
	}
	return out
}

func findBuiltinProject(slug string) (projectCard, bool) {
	for _, p := range builtinProjects {
		if p.Slug == slug {
			return p, true
		}
	}
	return projectCard{}, false
}

func findBuiltinPost(slug string) (postCard, bool) {
	for _, p := range builtinPosts {
		if p.Slug == slug {
			return p, true
		}
	}
	return postCard{}, false
}
