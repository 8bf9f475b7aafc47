package domain

// Product is a single purchasable study planner, keyed by the certification id
// used across the site. The catalog is static; it is the authoritative source
// for names and the only ids the pricing validator will accept.
type Product struct {
	ID     string
	Name   string
	Vendor string
}

// Products is the authoritative product catalog.
var Products = map[string]Product{
	"comptia-a-plus-1201":     {ID: "comptia-a-plus-1201", Name: "CompTIA A+ Core 1", Vendor: "comptia"},
	"comptia-a-plus-1202":     {ID: "comptia-a-plus-1202", Name: "CompTIA A+ Core 2", Vendor: "comptia"},
	"comptia-security-plus":   {ID: "comptia-security-plus", Name: "CompTIA Security+", Vendor: "comptia"},
	"comptia-network-plus":    {ID: "comptia-network-plus", Name: "CompTIA Network+", Vendor: "comptia"},
	"comptia-linux-plus":      {ID: "comptia-linux-plus", Name: "CompTIA Linux+", Vendor: "comptia"},
	"comptia-cloud-plus":      {ID: "comptia-cloud-plus", Name: "CompTIA Cloud+", Vendor: "comptia"},
	"comptia-cysa-plus":       {ID: "comptia-cysa-plus", Name: "CompTIA CySA+", Vendor: "comptia"},
	"comptia-pentest-plus":    {ID: "comptia-pentest-plus", Name: "CompTIA PenTest+", Vendor: "comptia"},
	"comptia-casp-plus":       {ID: "comptia-casp-plus", Name: "CompTIA CASP+", Vendor: "comptia"},
	"comptia-server-plus":     {ID: "comptia-server-plus", Name: "CompTIA Server+", Vendor: "comptia"},
	"comptia-data-plus":       {ID: "comptia-data-plus", Name: "CompTIA Data+", Vendor: "comptia"},
	"comptia-project-plus":    {ID: "comptia-project-plus", Name: "CompTIA Project+", Vendor: "comptia"},
	"comptia-itf-plus":        {ID: "comptia-itf-plus", Name: "CompTIA ITF+", Vendor: "comptia"},
	"isc2-cc":                 {ID: "isc2-cc", Name: "ISC2 CC", Vendor: "isc2"},
	"isc2-sscp":               {ID: "isc2-sscp", Name: "ISC2 SSCP", Vendor: "isc2"},
	"isc2-cissp":              {ID: "isc2-cissp", Name: "ISC2 CISSP", Vendor: "isc2"},
	"isc2-ccsp":               {ID: "isc2-ccsp", Name: "ISC2 CCSP", Vendor: "isc2"},
	"aws-cloud-practitioner":  {ID: "aws-cloud-practitioner", Name: "AWS Cloud Practitioner", Vendor: "aws"},
	"aws-solutions-architect": {ID: "aws-solutions-architect", Name: "AWS Solutions Architect", Vendor: "aws"},
	"aws-developer":           {ID: "aws-developer", Name: "AWS Developer Associate", Vendor: "aws"},
	"aws-cloudops":            {ID: "aws-cloudops", Name: "AWS CloudOps Engineer", Vendor: "aws"},
	"aws-security-specialty":  {ID: "aws-security-specialty", Name: "AWS Security Specialty", Vendor: "aws"},
	"aws-database-specialty":  {ID: "aws-database-specialty", Name: "AWS Database Specialty", Vendor: "aws"},
	"aws-machine-learning":    {ID: "aws-machine-learning", Name: "AWS Machine Learning", Vendor: "aws"},
	"aws-data-engineer":       {ID: "aws-data-engineer", Name: "AWS Data Engineer", Vendor: "aws"},
	"ms-az-900":               {ID: "ms-az-900", Name: "Microsoft Azure Fundamentals", Vendor: "microsoft"},
	"ms-az-104":               {ID: "ms-az-104", Name: "Microsoft Azure Administrator", Vendor: "microsoft"},
	"ms-az-305":               {ID: "ms-az-305", Name: "Azure Solutions Architect", Vendor: "microsoft"},
	"ms-sc-900":               {ID: "ms-sc-900", Name: "Security Fundamentals", Vendor: "microsoft"},
	"ms-ai-900":               {ID: "ms-ai-900", Name: "Azure AI Fundamentals", Vendor: "microsoft"},
	"ms-az-500":               {ID: "ms-az-500", Name: "Azure Security Engineer", Vendor: "microsoft"},
	"ms-az-204":               {ID: "ms-az-204", Name: "Azure Developer Associate", Vendor: "microsoft"},
	"ms-az-400":               {ID: "ms-az-400", Name: "Azure DevOps Engineer", Vendor: "microsoft"},
	"ms-dp-900":               {ID: "ms-dp-900", Name: "Azure Data Fundamentals", Vendor: "microsoft"},
	"ms-ms-900":               {ID: "ms-ms-900", Name: "Microsoft 365 Fundamentals", Vendor: "microsoft"},
	"ms-sc-300":               {ID: "ms-sc-300", Name: "Identity & Access Admin", Vendor: "microsoft"},
	"ms-ai-102":               {ID: "ms-ai-102", Name: "Azure AI Engineer", Vendor: "microsoft"},
	"cisco-ccna":              {ID: "cisco-ccna", Name: "Cisco CCNA", Vendor: "cisco"},
	"cisco-ccnp-encor":        {ID: "cisco-ccnp-encor", Name: "Cisco CCNP ENCOR", Vendor: "cisco"},
	"cisco-cyberops":          {ID: "cisco-cyberops", Name: "Cisco CyberOps Associate", Vendor: "cisco"},
	"cisco-ccnp-security":     {ID: "cisco-ccnp-security", Name: "Cisco CCNP Security SCOR", Vendor: "cisco"},
	"cisco-devnet":            {ID: "cisco-devnet", Name: "Cisco DevNet Associate", Vendor: "cisco"},
	"isaca-cisa":              {ID: "isaca-cisa", Name: "ISACA CISA", Vendor: "isaca"},
	"isaca-cism":              {ID: "isaca-cism", Name: "ISACA CISM", Vendor: "isaca"},
	"isaca-crisc":             {ID: "isaca-crisc", Name: "ISACA CRISC", Vendor: "isaca"},
	"giac-gsec":               {ID: "giac-gsec", Name: "GIAC GSEC", Vendor: "giac"},
	"giac-gcih":               {ID: "giac-gcih", Name: "GIAC GCIH", Vendor: "giac"},
	"giac-gpen":               {ID: "giac-gpen", Name: "GIAC GPEN", Vendor: "giac"},
	"giac-gcia":               {ID: "giac-gcia", Name: "GIAC GCIA", Vendor: "giac"},
	"google-ace":              {ID: "google-ace", Name: "Google Associate Cloud Engineer", Vendor: "google"},
	"google-pca":              {ID: "google-pca", Name: "Google Professional Cloud Architect", Vendor: "google"},
	"google-cdl":              {ID: "google-cdl", Name: "Google Cloud Digital Leader", Vendor: "google"},
	"google-pde":              {ID: "google-pde", Name: "Google Professional Data Engineer", Vendor: "google"},
	"google-pse":              {ID: "google-pse", Name: "Google Cloud Security Engineer", Vendor: "google"},
	"ec-ceh":                  {ID: "ec-ceh", Name: "EC-Council CEH v13", Vendor: "ec-council"},
	"ec-chfi":                 {ID: "ec-chfi", Name: "EC-Council CHFI v11", Vendor: "ec-council"},
	"ec-cnd":                  {ID: "ec-cnd", Name: "EC-Council CND v3", Vendor: "ec-council"},
	"offsec-oscp":             {ID: "offsec-oscp", Name: "OffSec OSCP", Vendor: "offsec"},
	"offsec-oswa":             {ID: "offsec-oswa", Name: "OffSec OSWA", Vendor: "offsec"},
	"offsec-oswe":             {ID: "offsec-oswe", Name: "OffSec OSWE", Vendor: "offsec"},
	"hashicorp-terraform":     {ID: "hashicorp-terraform", Name: "HashiCorp Terraform Associate", Vendor: "hashicorp"},
	"hashicorp-vault":         {ID: "hashicorp-vault", Name: "HashiCorp Vault Associate", Vendor: "hashicorp"},
	"k8s-cka":                 {ID: "k8s-cka", Name: "Kubernetes CKA", Vendor: "k8s"},
	"k8s-ckad":                {ID: "k8s-ckad", Name: "Kubernetes CKAD", Vendor: "k8s"},
	"k8s-cks":                 {ID: "k8s-cks", Name: "Kubernetes CKS", Vendor: "k8s"},
}

// CareerPathPrefix marks a cart product id as a career path rather than a
// single certification.
const CareerPathPrefix = "cp:"

// CareerPath is a named group of certifications sold as one unit and expanded
// to its constituents at fulfillment time.
type CareerPath struct {
	ID    string
	Name  string
	Certs []string // ordered constituent product ids
}

// CareerPaths is the authoritative career path catalog.
var CareerPaths = map[string]CareerPath{
	"cp:comptia-a-plus": {
		ID:    "cp:comptia-a-plus",
		Name:  "CompTIA A+ Career Path",
		Certs: []string{"comptia-a-plus-1201", "comptia-a-plus-1202"},
	},
	"cp:security-analyst": {
		ID:    "cp:security-analyst",
		Name:  "Security Analyst Career Path",
		Certs: []string{"comptia-security-plus", "comptia-cysa-plus", "comptia-casp-plus"},
	},
	"cp:network-engineer": {
		ID:    "cp:network-engineer",
		Name:  "Network Engineer Career Path",
		Certs: []string{"comptia-network-plus", "cisco-ccna", "cisco-ccnp-encor"},
	},
	"cp:cloud-engineer": {
		ID:    "cp:cloud-engineer",
		Name:  "Cloud Engineer Career Path",
		Certs: []string{"aws-cloud-practitioner", "aws-solutions-architect", "aws-cloudops"},
	},
	"cp:penetration-tester": {
		ID:    "cp:penetration-tester",
		Name:  "Penetration Tester Career Path",
		Certs: []string{"comptia-security-plus", "comptia-pentest-plus", "ec-ceh", "offsec-oscp"},
	},
	"cp:azure-administrator": {
		ID:    "cp:azure-administrator",
		Name:  "Azure Administrator Career Path",
		Certs: []string{"ms-az-900", "ms-az-104", "ms-az-305"},
	},
	"cp:grc-auditor": {
		ID:    "cp:grc-auditor",
		Name:  "GRC & Audit Career Path",
		Certs: []string{"isc2-cc", "isaca-cisa", "isaca-crisc"},
	},
}

// IsCareerPathID reports whether a product id refers to a career path.
func IsCareerPathID(id string) bool {
	return len(id) > len(CareerPathPrefix) && id[:len(CareerPathPrefix)] == CareerPathPrefix
}
