package policy

// DefaultRulesYAML is the rule file written by hrbot init. It encodes the
// standard access model: self access, manager access to direct reports,
// HR full access, and finance access scoped by cost center.
const DefaultRulesYAML = `rules:
  - name: allow_hr_full_access
    description: HR can perform any action on any employee.
    effect: allow
    priority: 90
    condition: is_hr

  - name: allow_self_access
    description: Everyone can view and manage their own data.
    effect: allow
    priority: 60
    actions:
      - get_employee_basic
      - get_employee_tenure
      - get_manager
      - get_manager_chain
      - get_direct_reports
      - get_holiday_balance
      - get_holiday_requests
      - submit_holiday_request
      - cancel_holiday_request
      - get_compensation
      - get_salary_history
    condition: is_self

  - name: allow_manager_team_access
    description: Managers can view profile and time off of their direct reports.
    effect: allow
    priority: 50
    actions:
      - get_employee_basic
      - get_employee_tenure
      - get_manager
      - get_holiday_balance
      - get_holiday_requests
    condition: is_manager_and_direct_report

  - name: allow_manager_approvals
    description: Managers handle holiday approvals for their team.
    effect: allow
    priority: 50
    actions:
      - get_pending_approvals
      - approve_holiday_request
      - reject_holiday_request
    condition: is_manager

  - name: allow_manager_team_views
    description: Managers can see their own team summary and calendar.
    effect: allow
    priority: 50
    actions:
      - get_team_overview
      - get_team_calendar
    condition: is_manager

  - name: allow_finance_compensation
    description: Finance can read compensation within their cost centers.
    effect: allow
    priority: 40
    actions:
      - get_compensation
      - get_salary_history
      - get_team_compensation_summary
    condition: finance_has_cost_center_access

  - name: allow_public_info
    description: Directory, org structure, and company information are open to everyone.
    effect: allow
    priority: 10
    actions:
      - search_employee
      - get_department_directory
      - get_org_chart
      - get_company_policies
      - get_policy_details
      - get_company_holidays
      - get_announcements
      - get_upcoming_events
    condition: always
`
