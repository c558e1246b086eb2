package navigation

// portalMenu 门户导航菜单, 也是子用户可分配的权限目标
var portalMenu = []*Item{
	{ID: "dashboard", Name: "Dashboard", Level: LevelMain, Icon: "LayoutDashboard", Href: "/dashboard"},
	{
		ID: "brsr", Name: "BRSR", Level: LevelMain, Icon: "FileText",
		Children: []*Item{
			{ID: "brsr-general", Name: "General Disclosures", Level: LevelSubmenu, Href: "/brsr/general-disclosures"},
			{ID: "brsr-management", Name: "Management and Process", Level: LevelSubmenu, Href: "/brsr/management-process"},
			{
				ID: "brsr-principles", Name: "Principle-wise Performance", Level: LevelSubmenu,
				Children: []*Item{
					{ID: "brsr-principle-1", Name: "Principle 1 - Ethics and Transparency", Level: LevelSubSubmenu, Href: "/brsr/principle-1"},
					{ID: "brsr-principle-2", Name: "Principle 2 - Sustainable Products", Level: LevelSubSubmenu, Href: "/brsr/principle-2"},
					{ID: "brsr-principle-3", Name: "Principle 3 - Employee Wellbeing", Level: LevelSubSubmenu, Href: "/brsr/principle-3"},
					{ID: "brsr-principle-4", Name: "Principle 4 - Stakeholder Engagement", Level: LevelSubSubmenu, Href: "/brsr/principle-4"},
					{ID: "brsr-principle-5", Name: "Principle 5 - Human Rights", Level: LevelSubSubmenu, Href: "/brsr/principle-5"},
					{ID: "brsr-principle-6", Name: "Principle 6 - Environment", Level: LevelSubSubmenu, Href: "/brsr/principle-6"},
					{ID: "brsr-principle-7", Name: "Principle 7 - Public Policy", Level: LevelSubSubmenu, Href: "/brsr/principle-7"},
					{ID: "brsr-principle-8", Name: "Principle 8 - Inclusive Growth", Level: LevelSubSubmenu, Href: "/brsr/principle-8"},
					{ID: "brsr-principle-9", Name: "Principle 9 - Consumer Responsibility", Level: LevelSubSubmenu, Href: "/brsr/principle-9"},
				},
			},
		},
	},
	{
		ID: "esgdd", Name: "ESG Due Diligence", Level: LevelMain, Icon: "ShieldCheck",
		Children: []*Item{
			{ID: "esgdd-questionnaire", Name: "Questionnaire", Level: LevelSubmenu, Href: "/esgdd/questionnaire"},
			{ID: "esgdd-report", Name: "Due Diligence Report", Level: LevelSubmenu, Href: "/esgdd/report"},
			{ID: "esgdd-escap", Name: "Corrective Action Plan", Level: LevelSubmenu, Href: "/esgdd/escap"},
		},
	},
	{
		ID: "ghg", Name: "GHG Accounting", Level: LevelMain, Icon: "Factory",
		Children: []*Item{
			{ID: "ghg-scope-1", Name: "Scope 1", Level: LevelSubmenu, Href: "/ghg-accounting/scope-1"},
			{ID: "ghg-scope-2", Name: "Scope 2", Level: LevelSubmenu, Href: "/ghg-accounting/scope-2"},
			{
				ID: "ghg-scope-3", Name: "Scope 3", Level: LevelSubmenu,
				Children: []*Item{
					{ID: "ghg-scope-3-upstream", Name: "Upstream Categories", Level: LevelSubSubmenu, Href: "/ghg-accounting/scope-3/upstream"},
					{ID: "ghg-scope-3-downstream", Name: "Downstream Categories", Level: LevelSubSubmenu, Href: "/ghg-accounting/scope-3/downstream"},
				},
			},
			{ID: "ghg-reports", Name: "Emission Reports", Level: LevelSubmenu, Href: "/ghg-accounting/reports"},
		},
	},
	{
		ID: "team", Name: "Team", Level: LevelMain, Icon: "Users",
		Children: []*Item{
			{ID: "team-members", Name: "Members", Level: LevelSubmenu, Href: "/team/members"},
			{ID: "team-permissions", Name: "Permissions", Level: LevelSubmenu, Href: "/team/permissions"},
		},
	},
	{
		ID: "company", Name: "Company Settings", Level: LevelMain, Icon: "Building2", Href: "/company",
		Children: []*Item{
			{ID: "company-locations", Name: "Locations", Level: LevelSubmenu, Href: "/company/locations"},
			{ID: "company-subsidiaries", Name: "Subsidiaries", Level: LevelSubmenu, Href: "/company/subsidiaries"},
			{ID: "company-feature-access", Name: "Feature Access", Level: LevelSubmenu, Href: "/company/feature-access"},
		},
	},
}
